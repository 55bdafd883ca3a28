package naver

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// FetchInvestorFlow fetches recent investor trading flow for a stock from
// Naver Finance. Rows come back newest first; days caps how many are kept.
// ⭐ SSOT: Naver Finance 투자자 수급 데이터 호출은 이 함수에서만
func (c *Client) FetchInvestorFlow(ctx context.Context, stockCode string, days int) ([]InvestorFlow, error) {
	path := fmt.Sprintf("/item/frgn.naver?code=%s&page=1", stockCode)

	html, err := c.fetchHTML(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("investor flow fetch: %w", err)
	}

	flows, err := parseInvestorHTML(html, stockCode)
	if err != nil {
		return nil, fmt.Errorf("investor flow parse: %w", err)
	}

	if days > 0 && len(flows) > days {
		flows = flows[:days]
	}

	c.logger.WithFields(map[string]interface{}{
		"stock_code": stockCode,
		"count":      len(flows),
	}).Debug("Fetched investor flow")

	return flows, nil
}

var investorDateRe = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`)

// parseInvestorHTML parses a Naver Finance 외국인/기관 page
func parseInvestorHTML(html string, stockCode string) ([]InvestorFlow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	// 두번째 type2 테이블이 데이터 테이블
	tables := doc.Find("table.type2")
	if tables.Length() < 2 {
		return nil, fmt.Errorf("data table not found")
	}

	var flows []InvestorFlow
	tables.Eq(1).Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 7 {
			return
		}

		dateText := strings.TrimSpace(cells.Eq(0).Text())
		if !investorDateRe.MatchString(dateText) {
			return
		}

		tradeDate, err := time.Parse("2006.01.02", dateText)
		if err != nil {
			return
		}

		// 컬럼: 날짜 | 종가 | 대비 | 등락률 | 거래량 | 기관 | 외국인
		instNet := parseFlowNum(cells.Eq(5).Text())
		foreignNet := parseFlowNum(cells.Eq(6).Text())

		flows = append(flows, InvestorFlow{
			StockCode:      stockCode,
			TradeDate:      tradeDate,
			ForeignNet:     foreignNet,
			InstitutionNet: instNet,
			IndividualNet:  -(foreignNet + instNet),
		})
	})

	return flows, nil
}

func parseFlowNum(s string) int64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "+", "")
	if s == "" || s == "-" {
		return 0
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
