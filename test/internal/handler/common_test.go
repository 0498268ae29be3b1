package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// 用於觸發 binding 失敗的非法 JSON
const InvalidJSON = `{"invalid": json}`

// createJSONRequest 將資料序列化為 JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBufferString("")
	}
	return bytes.NewBuffer(jsonData)
}

// createJSONHTTPRequest 建立帶 JSON body 的 HTTP 請求
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}
