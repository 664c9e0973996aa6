package errors

import "errors"

// ErrKeyNotFound 存储中不存在该键
var ErrKeyNotFound = errors.New("键不存在")

// ErrTransport 存储或网络调用失败，调用方需回滚本地乐观状态
var ErrTransport = errors.New("存储或网络调用失败")
