package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roboco-io/hwpxspec/internal/config"
	"github.com/roboco-io/hwpxspec/internal/docspec"
	"github.com/roboco-io/hwpxspec/internal/parser"
	"github.com/roboco-io/hwpxspec/internal/parser/hwpx"
	"github.com/roboco-io/hwpxspec/internal/store"
)

var (
	extractOutput  string
	extractFormat  string
	extractPretty  bool
	extractCache   bool
	extractWorkers int
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "HWPX 문서에서 문서 명세 추출",
	Long: `HWPX 문서를 파싱하여 문단(paragraph-N)과 표(table-M)를 원래 순서대로 담은
문서 명세를 출력합니다.

각 문단과 셀은 같은 스타일의 연속 구간(segments)으로 나뉘며, 표 셀에는
병합(colSpan, rowSpan), 크기, 배경색과 중첩 표가 포함됩니다.

예시:
  hwpxspec extract document.hwpx
  hwpxspec extract document.hwpx -o spec.json
  hwpxspec extract document.hwpx --format yaml
  hwpxspec extract document.hwpx --format text
  hwpxspec extract document.hwpx --cache --workers 4`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "출력 파일 경로 (기본: stdout)")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "", "출력 형식 (json, yaml, text; 기본: 설정값)")
	extractCmd.Flags().BoolVar(&extractPretty, "pretty", true, "JSON 들여쓰기 적용")
	extractCmd.Flags().BoolVar(&extractCache, "cache", false, "추출 결과 캐시 사용")
	extractCmd.Flags().IntVar(&extractWorkers, "workers", 0, "동시에 처리할 섹션 수 (기본: 설정값)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := checkInput(inputPath); err != nil {
		return err
	}

	applyExtractFlags(cmd, cfg)
	format, err := docspec.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	output, err := extractWithCache(cmd.Context(), inputPath, cfg, format, log)
	if err != nil {
		return err
	}

	if extractOutput == "" {
		_, err := cmd.OutOrStdout().Write(output)
		return err
	}
	if err := os.WriteFile(extractOutput, output, 0644); err != nil {
		return fmt.Errorf("파일 저장 실패: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "추출 완료: %s\n", extractOutput)
	}
	return nil
}

// checkInput rejects missing files and unknown extensions. Legacy .hwp files
// pass so that the parser can report them distinctly.
func checkInput(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("파일을 찾을 수 없습니다: %s", path)
	}
	if parser.DetectFormat(path) == parser.FormatUnknown {
		return fmt.Errorf("지원하지 않는 파일 형식입니다: %s", filepath.Ext(path))
	}
	return nil
}

// applyExtractFlags lets explicitly given flags override the configuration.
func applyExtractFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = extractFormat
	}
	if flags.Changed("pretty") {
		cfg.Output.Pretty = extractPretty
	}
	if flags.Changed("cache") {
		cfg.Cache.Enabled = extractCache
	}
	if flags.Changed("workers") {
		cfg.Extract.Workers = extractWorkers
	}
}

func extractWithCache(ctx context.Context, path string, cfg *config.Config, format docspec.Format, log *zap.Logger) ([]byte, error) {
	if !cfg.Cache.Enabled {
		return render(path, cfg, format, log)
	}

	cache, key, err := openCache(cfg, path, format, log)
	if err != nil {
		// a broken cache never blocks extraction
		log.Warn("cache unavailable", zap.Error(err))
		return render(path, cfg, format, log)
	}
	defer cache.Close()

	if data, ok, err := cache.Get(ctx, key); err != nil {
		log.Warn("cache lookup failed", zap.Error(err))
	} else if ok {
		return data, nil
	}

	data, err := render(path, cfg, format, log)
	if err != nil {
		return nil, err
	}
	if err := cache.Put(ctx, key, path, data); err != nil {
		log.Warn("cache store failed", zap.Error(err))
	}
	return data, nil
}

func openCache(cfg *config.Config, path string, format docspec.Format, log *zap.Logger) (*store.Cache, string, error) {
	cachePath, err := cfg.CachePath()
	if err != nil {
		return nil, "", err
	}
	key, err := store.KeyFile(path, cacheVariant(cfg, format))
	if err != nil {
		return nil, "", err
	}
	cache, err := store.Open(cachePath, log)
	if err != nil {
		return nil, "", err
	}
	return cache, key, nil
}

// cacheVariant lists every setting that changes rendered output. Workers do
// not: section order is fixed.
func cacheVariant(cfg *config.Config, format docspec.Format) string {
	d := cfg.DocDefaults()
	return fmt.Sprintf("%s|v=%s|pretty=%t|nfc=%t|depth=%d|face=%s|height=%g|align=%s",
		format, version, cfg.Output.Pretty, cfg.Extract.NormalizeUnicode, cfg.Extract.MaxTableDepth,
		d.FaceName, d.Height, d.Alignment)
}

func render(path string, cfg *config.Config, format docspec.Format, log *zap.Logger) ([]byte, error) {
	doc, err := hwpx.Extract(path, cfg.ParserOptions(log))
	if err != nil {
		return nil, fmt.Errorf("문서 파싱 실패: %w", err)
	}

	tree := docspec.Assemble(doc, cfg.DocDefaults())
	paragraphs, tables := tree.Counts()
	log.Info("document assembled",
		zap.String("file", path),
		zap.Int("paragraphs", paragraphs),
		zap.Int("tables", tables))

	var buf bytes.Buffer
	if err := docspec.Encode(&buf, tree, format, cfg.Output.Pretty); err != nil {
		return nil, fmt.Errorf("출력 포맷팅 실패: %w", err)
	}
	return buf.Bytes(), nil
}
