package domain

type ResolvedReference struct {
	Reference  string `json:"reference"`
	DocumentID string `json:"document_id,omitempty"`
	Resolved   bool   `json:"resolved"`
}

// ReferenceReport lists a document's outbound references and the documents pointing at it.
// References are opaque strings; unresolved ones are reported, not rejected.
type ReferenceReport struct {
	DocumentID   string              `json:"document_id"`
	References   []ResolvedReference `json:"references"`
	ReferencedBy []string            `json:"referenced_by"`
}

// ReferenceKeys are the identifiers another document may use to point at doc.
func ReferenceKeys(doc Document) []string {
	keys := []string{doc.ID}
	if doc.FileName != "" {
		keys = append(keys, doc.FileName)
	}
	return keys
}

// ResolveReference finds the document a reference names, by ID or generated file name.
func ResolveReference(docs []Document, reference string) (string, bool) {
	for _, doc := range docs {
		if doc.ID == reference || (doc.FileName != "" && doc.FileName == reference) {
			return doc.ID, true
		}
	}
	return "", false
}

type ContentReport struct {
	Format    string `json:"format"`
	PageCount int    `json:"page_count,omitempty"`
}
