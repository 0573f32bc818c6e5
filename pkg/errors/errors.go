package errors

import "errors"

// ErrNoCompany 当前用户未关联公司，公司级接口均无法继续
var ErrNoCompany = errors.New("当前用户未关联公司")
