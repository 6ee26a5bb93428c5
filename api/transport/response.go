package transport

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every API response, successful or not.
type Envelope struct {
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
	Meta   any    `json:"meta,omitempty"`
}

// Page describes the window a list response was cut from.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

func NewSuccess(data any, meta any) Envelope {
	return Envelope{
		Status: StatusSuccess,
		Data:   data,
		Meta:   meta,
	}
}

// NewList returns a success envelope for items with page as meta. Count is
// filled from items.
func NewList[T any](items []T, page Page) Envelope {
	if items == nil {
		items = []T{}
	}
	page.Count = len(items)
	return NewSuccess(items, page)
}

// NewError returns an error envelope. meta carries optional diagnostics.
func NewError(code, message string, meta any) Envelope {
	return Envelope{
		Status: StatusError,
		Code:   code,
		Error:  message,
		Meta:   meta,
	}
}
