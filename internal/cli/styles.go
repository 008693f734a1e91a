package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/hwpxspec/internal/parser/hwpx"
)

var stylesLimit int

var stylesCmd = &cobra.Command{
	Use:   "styles <file>",
	Short: "헤더의 스타일 테이블 표시",
	Long: `HWPX 문서의 header.xml에서 읽은 스타일 테이블을 표시합니다.

문단 스타일(정렬), 글자 스타일(크기, 글꼴, 굵기), 글꼴 테이블,
테두리/배경 테이블을 각각 최대 --limit 개까지 출력합니다.

예시:
  hwpxspec styles document.hwpx
  hwpxspec styles document.hwpx --limit 50`,
	Args: cobra.ExactArgs(1),
	RunE: runStyles,
}

func init() {
	stylesCmd.Flags().IntVar(&stylesLimit, "limit", 10, "테이블별 최대 출력 개수 (0: 전체)")

	rootCmd.AddCommand(stylesCmd)
}

func runStyles(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := checkInput(inputPath); err != nil {
		return err
	}

	p, err := hwpx.New(inputPath, cfg.ParserOptions(log))
	if err != nil {
		return fmt.Errorf("문서 파싱 실패: %w", err)
	}
	defer p.Close()

	writeRegistry(cmd.OutOrStdout(), p.Registry(), stylesLimit)
	return nil
}

// writeRegistry prints each table sorted by id, truncated to limit rows.
func writeRegistry(out io.Writer, reg *hwpx.Registry, limit int) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "=== ParaShapes (%d) ===\n", len(reg.ParaShapes))
	fmt.Fprintln(w, "ID\tALIGN")
	ids := sortedIDs(reg.ParaShapes)
	for i, id := range ids {
		if truncated(w, i, limit, "paraShapes") {
			break
		}
		fmt.Fprintf(w, "%d\t%s\n", id, reg.ParaShapes[id].Alignment)
	}

	fmt.Fprintf(w, "\n=== CharShapes (%d) ===\n", len(reg.CharShapes))
	fmt.Fprintln(w, "ID\tHEIGHT\tFACE\tBOLD")
	ids = sortedIDs(reg.CharShapes)
	for i, id := range ids {
		if truncated(w, i, limit, "charShapes") {
			break
		}
		cs := reg.CharShapes[id]
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", id, orDash(cs.HeightPoints != 0, fmt.Sprintf("%gpt", cs.HeightPoints)), orDash(cs.FaceName != "", cs.FaceName), cs.Bold)
	}

	langs := make([]string, 0, len(reg.Fonts))
	for lang := range reg.Fonts {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		fonts := reg.Fonts[lang]
		fmt.Fprintf(w, "\n=== Fonts %s (%d) ===\n", lang, len(fonts))
		fmt.Fprintln(w, "ID\tFACE")
		for i, id := range sortedIDs(fonts) {
			if truncated(w, i, limit, "fonts") {
				break
			}
			fmt.Fprintf(w, "%d\t%s\n", id, fonts[id])
		}
	}

	fmt.Fprintf(w, "\n=== BorderFills (%d) ===\n", len(reg.BorderFills))
	fmt.Fprintln(w, "ID\tFILL")
	ids = sortedIDs(reg.BorderFills)
	for i, id := range ids {
		if truncated(w, i, limit, "borderFills") {
			break
		}
		bf := reg.BorderFills[id]
		fmt.Fprintf(w, "%d\t%s\n", id, orDash(bf.FillColor != "", bf.FillColor))
	}

	w.Flush()
}

func truncated(w io.Writer, i, limit int, name string) bool {
	if limit > 0 && i >= limit {
		fmt.Fprintf(w, "... (more %s omitted)\n", name)
		return true
	}
	return false
}

func orDash(ok bool, s string) string {
	if !ok {
		return "-"
	}
	return s
}

func sortedIDs[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
