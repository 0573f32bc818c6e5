package service

import (
	"strings"
	"time"

	"store-ops/internal/model"
)

// ProblemKind 问题上报分类结果
type ProblemKind int

const (
	ProblemKindUnclassified ProblemKind = iota
	ProblemKindStore                    // 门店问题
	ProblemKindVending                  // 自动售货机内部问题
)

// 上游 category 是自由文本，关键字表保持原样，调整会直接改变看板数字
var (
	storeProblemCategories   = []string{"store_problem", "store-problem", "storeproblem"}
	vendingProblemCategories = []string{"vending_machine", "vending-machine", "vendingmachine"}

	forcedStoreTitleKeywords   = []string{"자판기 고장", "자판기 오류"}
	forcedVendingTitleKeywords = []string{"제품 걸림", "수량 오류"}
	storeTitleKeywords         = []string{"매장 문제", "제품 관련", "무인택배함", "매장 시설"}
)

// ClassifyProblemReport 根据 category 与标题对问题上报分类。
//
// 优先级：
//  1. 标题含"자판기 고장/오류" → 门店问题
//  2. 标题含"제품 걸림/수량 오류" → 售货机问题
//  3. category 精确匹配
//  4. 标题含门店关键字 → 门店问题
//  5. 标题同时含"자판기"与"제품"或"수량" → 售货机问题
func ClassifyProblemReport(category, title string) ProblemKind {
	cat := strings.ToLower(strings.TrimSpace(category))
	t := strings.ToLower(title)

	switch {
	case containsAny(t, forcedStoreTitleKeywords):
		return ProblemKindStore
	case containsAny(t, forcedVendingTitleKeywords):
		return ProblemKindVending
	case equalsAny(cat, storeProblemCategories):
		return ProblemKindStore
	case equalsAny(cat, vendingProblemCategories):
		return ProblemKindVending
	case containsAny(t, storeTitleKeywords):
		return ProblemKindStore
	case strings.Contains(t, "자판기") && (strings.Contains(t, "제품") || strings.Contains(t, "수량")):
		return ProblemKindVending
	}
	return ProblemKindUnclassified
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func equalsAny(s string, values []string) bool {
	for _, v := range values {
		if s == v {
			return true
		}
	}
	return false
}

// ── 确认状态 ──

// isUnconfirmed 待处理且业主未确认
func isUnconfirmed(status string, confirmedAt *time.Time) bool {
	switch status {
	case "pending", "received", "submitted":
		return confirmedAt == nil
	}
	return false
}

func isCompleted(status string) bool {
	return status == "completed"
}

// ProblemCounts 单店问题/失物统计
type ProblemCounts struct {
	StoreProblems              int
	VendingProblems            int
	LostItems                  int
	UnprocessedStoreProblems   int
	CompletedStoreProblems     int
	UnconfirmedVendingProblems int
	ConfirmedVendingProblems   int
	UnconfirmedLostItems       int
	ConfirmedLostItems         int
}

// HasProblem 是否存在未处理的门店问题、售货机问题或失物
func (c ProblemCounts) HasProblem() bool {
	return c.UnprocessedStoreProblems > 0 || c.UnconfirmedVendingProblems > 0 || c.UnconfirmedLostItems > 0
}

// CountProblems 统计单店问题上报与失物
func CountProblems(reports []model.ProblemReport, lostItems []model.LostItem) ProblemCounts {
	var c ProblemCounts
	for i := range reports {
		p := &reports[i]
		switch ClassifyProblemReport(p.Category, p.Title) {
		case ProblemKindStore:
			c.StoreProblems++
			if isUnconfirmed(p.Status, p.BusinessConfirmedAt) {
				c.UnprocessedStoreProblems++
			} else if isCompleted(p.Status) {
				c.CompletedStoreProblems++
			}
		case ProblemKindVending:
			c.VendingProblems++
			if isUnconfirmed(p.Status, p.BusinessConfirmedAt) {
				c.UnconfirmedVendingProblems++
			} else if isCompleted(p.Status) {
				c.ConfirmedVendingProblems++
			}
		}
	}
	for i := range lostItems {
		item := &lostItems[i]
		c.LostItems++
		if isUnconfirmed(item.Status, item.BusinessConfirmedAt) {
			c.UnconfirmedLostItems++
		} else if isCompleted(item.Status) {
			c.ConfirmedLostItems++
		}
	}
	return c
}

// RequestCounts 单店请求/物资请求统计
type RequestCounts struct {
	Received             int
	InProgress           int
	Completed            int
	Rejected             int
	UnconfirmedCompleted int
	UnconfirmedRejected  int

	SupplyReceived          int
	SupplyInProgress        int // in_progress + manager_in_progress
	SupplyManagerInProgress int
}

// CountRequests 按状态统计请求与物资请求
func CountRequests(requests []model.Request, supplies []model.SupplyRequest) RequestCounts {
	var c RequestCounts
	for i := range requests {
		r := &requests[i]
		switch r.Status {
		case model.RequestStatusReceived:
			c.Received++
		case model.RequestStatusInProgress:
			c.InProgress++
		case model.RequestStatusCompleted:
			c.Completed++
			if r.BusinessConfirmedAt == nil {
				c.UnconfirmedCompleted++
			}
		case model.RequestStatusRejected:
			c.Rejected++
			if r.BusinessConfirmedAt == nil {
				c.UnconfirmedRejected++
			}
		}
	}
	for i := range supplies {
		switch supplies[i].Status {
		case model.RequestStatusReceived:
			c.SupplyReceived++
		case model.RequestStatusInProgress:
			c.SupplyInProgress++
		case model.RequestStatusManagerInProgress:
			c.SupplyInProgress++
			c.SupplyManagerInProgress++
		}
	}
	return c
}
