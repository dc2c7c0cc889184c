package httpadapter

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

const msgpackContentType = "application/msgpack"

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func wantsMsgpack(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(mediaType, msgpackContentType) || strings.EqualFold(mediaType, "application/x-msgpack") {
			return true
		}
	}
	return false
}

// writeMsgpack encodes payload using its json tags so both encodings share field names.
func writeMsgpack(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(payload); err != nil {
		return err
	}
	w.Header().Set("Content-Type", msgpackContentType)
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

type searchResponse struct {
	Documents     []domain.Document `json:"documents"`
	Total         int               `json:"total"`
	ActiveFilters int               `json:"active_filters"`
}

// documentRecord flattens the derived lifecycle flags for encoders that
// do not go through Document.MarshalJSON.
type documentRecord struct {
	domain.Document
	IsApproved bool `json:"is_approved"`
	IsWIP      bool `json:"is_wip"`
}

type searchRecords struct {
	Documents     []documentRecord `json:"documents"`
	Total         int              `json:"total"`
	ActiveFilters int              `json:"active_filters"`
}

func (s searchResponse) records() searchRecords {
	out := searchRecords{
		Documents:     make([]documentRecord, 0, len(s.Documents)),
		Total:         s.Total,
		ActiveFilters: s.ActiveFilters,
	}
	for _, doc := range s.Documents {
		out.Documents = append(out.Documents, documentRecord{
			Document:   doc,
			IsApproved: doc.IsApproved(),
			IsWIP:      doc.IsWIP(),
		})
	}
	return out
}
