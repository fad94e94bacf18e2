package models

// Manuscript is the payload of a single analysis request. It lives only for
// the duration of one provider call.
type Manuscript struct {
	FileName string
	MimeType string
	Data     []byte
}

func (m Manuscript) Size() int {
	return len(m.Data)
}
