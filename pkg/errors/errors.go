package errors

import "errors"

// ErrStorageUnavailable 后端存储访问失败。
// Service 层将非"记录不存在"的仓储错误包装为该类别，
// Handler 据此返回 503，与业务校验失败严格区分。
var ErrStorageUnavailable = errors.New("存储服务暂不可用")
