package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roboco-io/hwpxspec/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "추출 캐시 관리",
	Long: `extract --cache 가 사용하는 SQLite 캐시를 관리합니다.

하위 명령:
  info    캐시 경로와 항목 수 표시
  clear   모든 캐시 항목 삭제`,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "캐시 경로와 항목 수 표시",
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "모든 캐시 항목 삭제",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(cacheCmd)
}

func openConfiguredCache(cmd *cobra.Command) (*store.Cache, string, error) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return nil, "", err
	}
	path, err := cfg.CachePath()
	if err != nil {
		return nil, "", err
	}
	cache, err := store.Open(path, log)
	if err != nil {
		return nil, "", fmt.Errorf("캐시 열기 실패: %w", err)
	}
	return cache, path, nil
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	cache, path, err := openConfiguredCache(cmd)
	if err != nil {
		return err
	}
	defer cache.Close()

	n, err := cache.Len(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "캐시 파일: %s\n항목 수: %d\n", path, n)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cache, _, err := openConfiguredCache(cmd)
	if err != nil {
		return err
	}
	defer cache.Close()

	n, err := cache.Purge(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "캐시 항목 %d개 삭제됨\n", n)
	return nil
}
