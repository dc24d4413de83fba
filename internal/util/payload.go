package util

import "encoding/json"

// DecodePayload 解析账本记录的不透明载荷。失败时 out 保持零值并返回
// false，调用方显式走默认值路径而不是吞掉异常。
func DecodePayload(raw json.RawMessage, out interface{}) bool {
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

// MustMarshal 编码载荷；实体模型全部可序列化，失败属于编程错误
func MustMarshal(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
