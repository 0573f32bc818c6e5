package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    Code        `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Code 业务错误码
//
//	100xx 通用
//	161xx 导出
//	170xx 门店状态
//	180xx 清单
//	190xx 未管理报表
type Code int

const (
	CodeOK Code = 0

	CodeBadRequest      Code = 10001
	CodeUnauthorized    Code = 10002
	CodeForbidden       Code = 10003
	CodeRateLimited     Code = 10004
	CodeBodyTooLarge    Code = 10005
	CodeExportFailed    Code = 16101
	CodeNoCompany       Code = 17001
	CodeStoreListDown   Code = 17002
	CodeChecklistAbsent Code = 18001
	CodeInvalidStage    Code = 18002
	CodeChecklistBroken Code = 18003
	CodeInvalidDate     Code = 19001
	CodeCompanyListDown Code = 19002
	CodeInternal        Code = 50000
)

type codeInfo struct {
	status  int
	message string
}

var codeTable = map[Code]codeInfo{
	CodeOK:              {http.StatusOK, "success"},
	CodeBadRequest:      {http.StatusBadRequest, "请求参数错误"},
	CodeUnauthorized:    {http.StatusUnauthorized, "未认证"},
	CodeForbidden:       {http.StatusForbidden, "无权限访问"},
	CodeRateLimited:     {http.StatusTooManyRequests, "请求过于频繁，请稍后再试"},
	CodeBodyTooLarge:    {http.StatusRequestEntityTooLarge, "请求体过大"},
	CodeExportFailed:    {http.StatusInternalServerError, "生成 Excel 文件失败"},
	CodeNoCompany:       {http.StatusForbidden, "当前用户未关联公司"},
	CodeStoreListDown:   {http.StatusServiceUnavailable, "门店列表暂时无法获取"},
	CodeChecklistAbsent: {http.StatusNotFound, "清单不存在"},
	CodeInvalidStage:    {http.StatusBadRequest, "stage 只能为 before 或 after"},
	CodeChecklistBroken: {http.StatusUnprocessableEntity, "清单数据格式错误"},
	CodeInvalidDate:     {http.StatusBadRequest, "date 格式应为 YYYY-MM-DD"},
	CodeCompanyListDown: {http.StatusServiceUnavailable, "公司列表暂时无法获取"},
	CodeInternal:        {http.StatusInternalServerError, "服务器内部错误"},
}

// Status 错误码对应的 HTTP 状态，未登记的码按 500 处理
func (c Code) Status() int {
	if info, ok := codeTable[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Message 错误码的默认提示
func (c Code) Message() string {
	if info, ok := codeTable[c]; ok {
		return info.message
	}
	return codeTable[CodeInternal].message
}

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: CodeOK.Message(),
		Data:    data,
	})
}

// Fail 按错误码表返回状态与默认提示
func Fail(c *gin.Context, code Code) {
	FailWith(c, code, code.Message())
}

// FailWith 使用自定义提示，状态仍取自错误码表
func FailWith(c *gin.Context, code Code, message string) {
	c.JSON(code.Status(), Response{
		Code:    code,
		Message: message,
	})
}

// InternalError 500
func InternalError(c *gin.Context) {
	Fail(c, CodeInternal)
}
