// Package hwp5 recognizes HWP 5.x binary documents (OLE compound files).
//
// HWP 5.x is not extracted here; the package exists so that handing a legacy
// binary to the HWPX extractor fails with a precise error instead of a
// generic "not a zip file".
package hwp5

// HWP 5.x 파일 포맷 상수
// 참조: 한글문서파일형식 5.0 revision 1.3

const (
	// FileHeader 시그니처
	Signature = "HWP Document File"

	// FileHeader 크기 (고정)
	FileHeaderSize = 256

	// 속성 플래그 비트
	FlagCompressed    uint32 = 1 << 0 // 압축 여부
	FlagEncrypted     uint32 = 1 << 1 // 암호화 여부
	FlagDistributable uint32 = 1 << 2 // 배포용 문서
	FlagDRM           uint32 = 1 << 4 // DRM 보안
)

// 스트림 이름
const (
	StreamFileHeader = "FileHeader"
	StreamDocInfo    = "DocInfo"
	StreamBodyText   = "BodyText"
)
