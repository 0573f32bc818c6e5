package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"store-ops/internal/model"
)

func TestClassifyProblemReport(t *testing.T) {
	tests := []struct {
		name     string
		category string
		title    string
		want     ProblemKind
	}{
		{"标题强制门店问题优先于 category", "vending_machine", "자판기 고장 신고", ProblemKindStore},
		{"标题强制售货机问题优先于 category", "store_problem", "제품 걸림", ProblemKindVending},
		{"category 精确匹配门店", "store_problem", "기타", ProblemKindStore},
		{"category 大小写与空白", "  Vending-Machine ", "기타", ProblemKindVending},
		{"门店关键字", "", "무인택배함 파손", ProblemKindStore},
		{"售货机组合关键字", "", "자판기 제품 걸림 문제", ProblemKindVending},
		{"售货机数量关键字", "", "자판기 수량 확인 필요", ProblemKindVending},
		{"仅含자판기不分类", "", "자판기 청소", ProblemKindUnclassified},
		{"无法识别", "other", "문의", ProblemKindUnclassified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyProblemReport(tt.category, tt.title))
		})
	}
}

func TestCountProblems(t *testing.T) {
	confirmed := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	reports := []model.ProblemReport{
		{StoreID: "s1", Category: "store_problem", Status: "submitted"},
		{StoreID: "s1", Category: "store_problem", Status: "completed"},
		{StoreID: "s1", Category: "store_problem", Status: "pending", BusinessConfirmedAt: &confirmed},
		{StoreID: "s1", Title: "자판기 제품 걸림 문제", Status: "received"},
		{StoreID: "s1", Category: "vending_machine", Status: "completed"},
		{StoreID: "s1", Category: "other", Status: "submitted"},
	}
	lost := []model.LostItem{
		{StoreID: "s1", Status: "submitted"},
		{StoreID: "s1", Status: "completed"},
	}

	c := CountProblems(reports, lost)
	assert.Equal(t, 3, c.StoreProblems)
	assert.Equal(t, 1, c.UnprocessedStoreProblems)
	assert.Equal(t, 1, c.CompletedStoreProblems)
	assert.Equal(t, 2, c.VendingProblems)
	assert.Equal(t, 1, c.UnconfirmedVendingProblems)
	assert.Equal(t, 1, c.ConfirmedVendingProblems)
	assert.Equal(t, 2, c.LostItems)
	assert.Equal(t, 1, c.UnconfirmedLostItems)
	assert.Equal(t, 1, c.ConfirmedLostItems)
	assert.True(t, c.HasProblem())
}

func TestProblemCounts_HasProblem(t *testing.T) {
	assert.False(t, ProblemCounts{StoreProblems: 3, CompletedStoreProblems: 3}.HasProblem())
	assert.True(t, ProblemCounts{UnprocessedStoreProblems: 1}.HasProblem())
	assert.True(t, ProblemCounts{UnconfirmedVendingProblems: 1}.HasProblem())
	assert.True(t, ProblemCounts{UnconfirmedLostItems: 1}.HasProblem())

	// 已确认的待处理记录不再算作问题
	confirmed := time.Now()
	c := CountProblems([]model.ProblemReport{
		{Category: "store_problem", Status: "submitted", BusinessConfirmedAt: &confirmed},
	}, nil)
	assert.False(t, c.HasProblem())
}

func TestCountRequests(t *testing.T) {
	confirmed := time.Now()
	requests := []model.Request{
		{Status: model.RequestStatusReceived},
		{Status: model.RequestStatusInProgress},
		{Status: model.RequestStatusCompleted},
		{Status: model.RequestStatusCompleted, BusinessConfirmedAt: &confirmed},
		{Status: model.RequestStatusRejected},
	}
	supplies := []model.SupplyRequest{
		{Status: model.RequestStatusReceived},
		{Status: model.RequestStatusInProgress},
		{Status: model.RequestStatusManagerInProgress},
	}

	c := CountRequests(requests, supplies)
	assert.Equal(t, 1, c.Received)
	assert.Equal(t, 1, c.InProgress)
	assert.Equal(t, 2, c.Completed)
	assert.Equal(t, 1, c.UnconfirmedCompleted)
	assert.Equal(t, 1, c.Rejected)
	assert.Equal(t, 1, c.UnconfirmedRejected)
	assert.Equal(t, 1, c.SupplyReceived)
	assert.Equal(t, 2, c.SupplyInProgress)
	assert.Equal(t, 1, c.SupplyManagerInProgress)
}
