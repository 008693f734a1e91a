package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roboco-io/hwpxspec/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "설정 관리",
	Long: `hwpxspec 설정을 관리합니다.

설정 파일 위치: ~/.hwpxspec/config.yaml

하위 명령:
  show    현재 설정 표시
  init    기본 설정 파일 생성
  get     설정 값 조회
  set     설정 값 변경
  path    설정 파일 경로 표시`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "현재 설정 표시",
	Long: `설정 파일의 내용을 표시합니다.

설정 파일이 없으면 기본값이 표시됩니다.
환경 변수로 덮어쓴 값은 아래 목록에 따로 표시됩니다.`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "기본 설정 파일 생성",
	Long: `기본 설정 파일을 ~/.hwpxspec/config.yaml에 생성합니다.

이미 설정 파일이 있는 경우 오류가 발생합니다.
기존 파일을 덮어쓰려면 --force 플래그를 사용하세요.`,
	RunE: runConfigInit,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "설정 값 조회",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "설정 값 변경",
	Long: `설정 값을 변경합니다.

지원하는 키:
  ` + strings.Join(config.Keys, "\n  ") + `

예시:
  hwpxspec config set output.format yaml
  hwpxspec config set defaults.face_name 함초롬바탕
  hwpxspec config set extract.workers 4`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "설정 파일 경로 표시",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
		return nil
	},
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "기존 설정 파일 덮어쓰기")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

// configEnvVars are the overrides listed by config show.
var configEnvVars = [][2]string{
	{config.EnvFormat, "출력 형식"},
	{config.EnvLogLevel, "로그 레벨"},
	{config.EnvCache, "추출 캐시 사용"},
}

// rawConfig loads the file as written, without ${VAR} expansion, so that
// commands which save it back preserve the references.
func rawConfig() (*config.Loader, *config.Config, error) {
	loader, err := newLoader()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loader.LoadRaw()
	if err != nil {
		return nil, nil, fmt.Errorf("설정 로드 실패: %w", err)
	}
	return loader, cfg, nil
}

// keyError lists the supported keys when err is about the key itself rather
// than its value.
func keyError(err error) error {
	if !errors.Is(err, config.ErrUnknownKey) {
		return err
	}
	return fmt.Errorf("%w\n지원하는 키: %s", err, strings.Join(config.Keys, ", "))
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader, cfg, err := rawConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	source := "(기본값 사용)"
	if loader.Exists() {
		source = loader.ConfigPath()
	}
	fmt.Fprintf(out, "설정 파일: %s\n\n", source)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("설정 출력 실패: %w", err)
	}
	fmt.Fprintln(out, string(data))

	fmt.Fprintln(out, "환경 변수:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, ev := range configEnvVars {
		value, ok := os.LookupEnv(ev[0])
		if !ok || value == "" {
			value = "(미설정)"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", ev[0], ev[1], value)
	}
	return w.Flush()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}
	if loader.Exists() && !configForce {
		return fmt.Errorf("설정 파일이 이미 존재합니다: %s\n덮어쓰려면 --force 플래그를 사용하세요", loader.ConfigPath())
	}
	if err := loader.Save(config.DefaultConfig()); err != nil {
		return fmt.Errorf("설정 파일 생성 실패: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "설정 파일 생성됨: %s\n", loader.ConfigPath())
	return nil
}

// runConfigGet prints the effective value, environment overrides included.
func runConfigGet(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}
	cfg.ApplyEnv()

	value, err := cfg.Get(args[0])
	if err != nil {
		return keyError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	loader, cfg, err := rawConfig()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return keyError(err)
	}
	// the file keeps its ${VAR} references; validate what Load will see
	expanded, err := config.Expand(cfg)
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}
	if err := expanded.Validate(); err != nil {
		return fmt.Errorf("유효하지 않은 설정: %w", err)
	}
	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("설정 저장 실패: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "설정 변경됨: %s = %s\n", key, value)
	return nil
}
