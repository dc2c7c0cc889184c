package inspector

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Inspector confirms that stored bytes are what the file extension claims.
type Inspector struct{}

func New() *Inspector {
	return &Inspector{}
}

func (i *Inspector) Inspect(_ context.Context, fileType string, content []byte) (domain.ContentReport, error) {
	fileType = strings.ToLower(strings.TrimSpace(fileType))
	switch fileType {
	case "pdf":
		return inspectPDF(content)
	case "xlsx":
		return inspectWorkbook(content)
	case "docx":
		return inspectOpenXML(content, "word/")
	case "doc", "xls":
		if !bytes.HasPrefix(content, oleSignature) {
			return domain.ContentReport{}, mismatch(fileType, "missing OLE compound file header")
		}
		return domain.ContentReport{Format: fileType}, nil
	case "jpg", "jpeg", "png":
		return inspectImage(fileType, content)
	default:
		return domain.ContentReport{}, domain.WrapError(domain.ErrInvalidInput, "inspect",
			fmt.Errorf("unsupported file type %q", fileType))
	}
}

func inspectPDF(content []byte) (domain.ContentReport, error) {
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return domain.ContentReport{}, mismatch("pdf", "missing %PDF header")
	}
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return domain.ContentReport{}, mismatch("pdf", err.Error())
	}
	return domain.ContentReport{Format: "pdf", PageCount: reader.NumPage()}, nil
}

func inspectWorkbook(content []byte) (domain.ContentReport, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return domain.ContentReport{}, mismatch("xlsx", err.Error())
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.ContentReport{}, mismatch("xlsx", "workbook has no sheets")
	}
	// Sheets stand in for pages on spreadsheets.
	return domain.ContentReport{Format: "xlsx", PageCount: len(sheets)}, nil
}

func inspectOpenXML(content []byte, partPrefix string) (domain.ContentReport, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return domain.ContentReport{}, mismatch("docx", err.Error())
	}
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, partPrefix) {
			return domain.ContentReport{Format: "docx"}, nil
		}
	}
	return domain.ContentReport{}, mismatch("docx", "no "+partPrefix+" part")
}

func inspectImage(fileType string, content []byte) (domain.ContentReport, error) {
	want := "image/png"
	if fileType != "png" {
		want = "image/jpeg"
	}
	if got := http.DetectContentType(content); got != want {
		return domain.ContentReport{}, mismatch(fileType, "detected "+got)
	}
	return domain.ContentReport{Format: fileType, PageCount: 1}, nil
}

func mismatch(fileType, reason string) error {
	return domain.WrapError(domain.ErrInvalidInput, "inspect "+fileType, errors.New(reason))
}
