package models

import (
	"net/http"
	"time"
)

// ResponseModel Base response structure that can be reused
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// NewResponse builds a versioned response envelope around data.
func NewResponse(code int, data interface{}, text string) ResponseModel {
	return ResponseModel{
		Code:        code,
		CurrentTime: ResponseCurrentTime(),
		Data:        data,
		Text:        text,
		Version:     1,
	}
}

// NewOKResponse wraps data in a 200 envelope.
func NewOKResponse(data interface{}) ResponseModel {
	return NewResponse(http.StatusOK, data, "OK")
}

// NewEntryResponse wraps a single entry together with the filter it was computed for.
func NewEntryResponse(entry interface{}, filter FilterModel) ResponseModel {
	data := map[string]interface{}{
		"entry":  entry,
		"filter": filter,
	}
	return NewOKResponse(data)
}

// NewListResponse wraps a list together with the filter it was computed for.
func NewListResponse(list interface{}, filter FilterModel, limitExceeded bool) ResponseModel {
	data := map[string]interface{}{
		"list":          list,
		"filter":        filter,
		"limitExceeded": limitExceeded,
	}
	return NewOKResponse(data)
}

// ResponseCurrentTime returns the current time in epoch milliseconds.
func ResponseCurrentTime() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}
