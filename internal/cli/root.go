// Package cli implements the hwpxspec command line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roboco-io/hwpxspec/internal/config"
)

var version = "dev"

var (
	configPath string
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "hwpxspec",
	Short: "HWPX 문서에서 스타일이 해석된 문서 명세 추출",
	Long: `hwpxspec은 HWPX(OWPML) 문서를 읽어 문단과 표를 순서대로 추출하고,
글꼴·크기·굵기·정렬·셀 병합·배경색을 해석한 문서 명세(JSON/YAML)를 생성합니다.

설정 파일: ~/.hwpxspec/config.yaml

환경 변수:
  HWPXSPEC_FORMAT      출력 형식 (json, yaml, text)
  HWPXSPEC_LOG_LEVEL   로그 레벨 (debug, info, warn, error)
  HWPXSPEC_CACHE       추출 캐시 사용 (true, false)

예시:
  hwpxspec extract document.hwpx
  hwpxspec extract document.hwpx -f yaml -o spec.yaml
  hwpxspec styles document.hwpx --limit 20
  hwpxspec inspect document.hwpx`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보 표시",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hwpxspec %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "설정 파일 경로 (기본: ~/.hwpxspec/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "상세 로그 출력 (debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "오류만 출력")

	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Main runs the CLI and returns the process exit code.
func Main() int {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "오류: %v\n", err)
		return 1
	}
	return 0
}

// newLoader honours --config before falling back to ~/.hwpxspec.
func newLoader() (*config.Loader, error) {
	if configPath != "" {
		return config.NewLoaderWithPath(configPath), nil
	}
	loader, err := config.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("설정 로더 초기화 실패: %w", err)
	}
	return loader, nil
}

// loadConfig returns the effective configuration and a logger built from it.
func loadConfig(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	loader, err := newLoader()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loader.Resolve()
	if err != nil {
		return nil, nil, fmt.Errorf("설정 로드 실패: %w", err)
	}
	log, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// newLogger writes to w at the configured level; --verbose and --quiet win
// over the file.
func newLogger(cfg config.LogConfig, w io.Writer) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("잘못된 로그 레벨: %w", err)
	}
	switch {
	case quiet:
		level.SetLevel(zapcore.ErrorLevel)
	case verbose:
		level.SetLevel(zapcore.DebugLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core), nil
}
