package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/hwpxspec/internal/parser"
	"github.com/roboco-io/hwpxspec/internal/parser/hwp5"
	"github.com/roboco-io/hwpxspec/internal/parser/hwpx"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "문서 패키지 구성 표시",
	Long: `문서의 실제 형식(매직 바이트 기준), 패키지 파트 목록, 섹션 처리 순서와
매니페스트 메타데이터를 표시합니다.

HWP 5.x 바이너리 문서는 버전과 암호화/배포용 여부를 표시합니다.

예시:
  hwpxspec inspect document.hwpx
  hwpxspec inspect legacy.hwp`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	out := cmd.OutOrStdout()

	format, err := sniffFormat(inputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "파일: %s\n형식: %s\n", inputPath, format)

	switch format {
	case parser.FormatHWP:
		info, err := hwp5.Probe(inputPath)
		if err != nil {
			return fmt.Errorf("HWP 5.x 문서 분석 실패: %w", err)
		}
		writeLegacyInfo(out, info)
		return nil
	case parser.FormatHWPX:
		return inspectPackage(out, inputPath)
	default:
		return fmt.Errorf("지원하지 않는 파일 형식입니다: %s", inputPath)
	}
}

func sniffFormat(path string) (parser.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return parser.FormatUnknown, fmt.Errorf("파일을 찾을 수 없습니다: %s", path)
		}
		return parser.FormatUnknown, err
	}
	defer f.Close()

	return parser.DetectFormatFromReader(f)
}

func inspectPackage(out io.Writer, path string) error {
	pkg, err := hwpx.Open(path)
	if err != nil {
		return err
	}
	defer pkg.Close()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "\n파트 (%d):\n", len(pkg.Names()))
	for _, name := range pkg.Names() {
		fmt.Fprintf(w, "  %s\n", name)
	}

	fmt.Fprintf(w, "\n헤더: %s\n", presence(pkg.Has(hwpx.HeaderPart)))

	sections := pkg.SectionNames()
	fmt.Fprintf(w, "\n섹션 순서 (%d):\n", len(sections))
	for i, name := range sections {
		fmt.Fprintf(w, "  %d\t%s\n", i+1, name)
	}

	if name, ok := pkg.ManifestName(); ok {
		fmt.Fprintf(w, "\n매니페스트: %s\n", name)
		if doc, err := pkg.ParsePart(name); err != nil {
			fmt.Fprintf(w, "  (해석 실패: %v)\n", err)
		} else {
			manifest := hwpx.ReadManifest(doc.Root())
			meta := manifest.ToMetadata()
			for _, field := range []struct{ key, value string }{
				{"title", meta.Title},
				{"author", meta.Author},
				{"subject", meta.Subject},
				{"keywords", meta.Keywords},
				{"description", meta.Description},
				{"language", meta.Language},
				{"created", meta.Created},
			} {
				if field.value != "" {
					fmt.Fprintf(w, "  %s\t%s\n", field.key, field.value)
				}
			}
			fmt.Fprintf(w, "  items\t%d\n", len(manifest.Items))
		}
	}

	return w.Flush()
}

func writeLegacyInfo(out io.Writer, info *hwp5.Info) {
	h := info.Header
	fmt.Fprintf(out, "버전: %s\n", h.Version)
	fmt.Fprintf(out, "섹션: %d\n", info.Sections)
	fmt.Fprintf(out, "DocInfo: %t\n", info.HasDocInfo)
	fmt.Fprintf(out, "압축: %t\n", h.IsCompressed())
	fmt.Fprintf(out, "암호화: %t\n", h.IsEncrypted())
	fmt.Fprintf(out, "배포용: %t\n", h.IsDistributable())
	fmt.Fprintf(out, "DRM: %t\n", h.HasDRM())
	fmt.Fprintln(out, "\nextract는 HWPX 문서만 지원합니다. 한글에서 .hwpx로 저장한 뒤 다시 시도하세요.")
}

func presence(ok bool) string {
	if ok {
		return "있음"
	}
	return "없음 (기본 스타일 사용)"
}
