package results

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/zappabad/cdamarket/internal/trader"
)

// Row is one CSV line with a stable set of named fields.
type Row interface {
	Header() []string
	Values() []string
}

// Category names, also used as CSV file name prefixes.
const (
	CategoryUtil      = "util"
	CategoryTrade     = "trade"
	CategoryExcess    = "excess"
	CategoryArbitrage = "arbitrage"
	CategoryRejected  = "rejected"
)

func itoa(v int64) string   { return strconv.FormatInt(v, 10) }
func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
func btoa(v bool) string    { return strconv.FormatBool(v) }

func balance(b trader.Balance) []string {
	return []string{itoa(b.Money), itoa(b.X), itoa(b.Y)}
}

// UtilityRecord is the average utility of one (algorithm, type) group at
// the start of a timestep.
type UtilityRecord struct {
	AvgUtil float64 `json:"avg_util"`
	Algo    string  `json:"talgo"`
	Type    int     `json:"ttype"`
	Time    int64   `json:"time"`
	Period  int     `json:"period"`
}

func (UtilityRecord) Header() []string {
	return []string{"avg_util", "talgo", "ttype", "time", "period"}
}

func (r UtilityRecord) Values() []string {
	return []string{ftoa(r.AvgUtil), r.Algo, itoa(int64(r.Type)), itoa(r.Time), itoa(int64(r.Period))}
}

// TradeRecord is a trade enriched with both parties' state after settlement.
type TradeRecord struct {
	Time      int64  `json:"time"`
	Period    int    `json:"period"`
	Run       int    `json:"run"`
	BuyerID   int64  `json:"buyer_id"`
	SellerID  int64  `json:"seller_id"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Good      string `json:"ptype"`
	Arbitrage bool   `json:"arbitrage"`
	TakerID   int64  `json:"taker"`
	MakerID   int64  `json:"maker"`

	BuyerAlgo     string         `json:"buyer_algo"`
	BuyerUtil     float64        `json:"buyer_util"`
	BuyerBalance  trader.Balance `json:"buyer_balance"`
	SellerAlgo    string         `json:"seller_algo"`
	SellerUtil    float64        `json:"seller_util"`
	SellerBalance trader.Balance `json:"seller_balance"`
}

func (TradeRecord) Header() []string {
	return []string{
		"time", "period", "run", "buyer_id", "seller_id", "price", "quantity", "ptype",
		"arbitrage", "taker", "maker",
		"buyer_algo", "buyer_util", "buyer_money", "buyer_x", "buyer_y",
		"seller_algo", "seller_util", "seller_money", "seller_x", "seller_y",
	}
}

func (r TradeRecord) Values() []string {
	out := []string{
		itoa(r.Time), itoa(int64(r.Period)), itoa(int64(r.Run)), itoa(r.BuyerID), itoa(r.SellerID),
		itoa(r.Price), itoa(r.Quantity), r.Good, btoa(r.Arbitrage), itoa(r.TakerID), itoa(r.MakerID),
		r.BuyerAlgo, ftoa(r.BuyerUtil),
	}
	out = append(out, balance(r.BuyerBalance)...)
	out = append(out, r.SellerAlgo, ftoa(r.SellerUtil))
	return append(out, balance(r.SellerBalance)...)
}

// ExcessRecord is a trader's excess allocation at the end of a period.
type ExcessRecord struct {
	Money    float64 `json:"money"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	TraderID int64   `json:"tid"`
	Algo     string  `json:"talgo"`
	Type     int     `json:"ttype"`
	Period   int     `json:"period"`
	Run      int     `json:"run"`
}

func (ExcessRecord) Header() []string {
	return []string{"money", "X", "Y", "tid", "talgo", "ttype", "period", "run"}
}

func (r ExcessRecord) Values() []string {
	return []string{
		ftoa(r.Money), ftoa(r.X), ftoa(r.Y), itoa(r.TraderID), r.Algo,
		itoa(int64(r.Type)), itoa(int64(r.Period)), itoa(int64(r.Run)),
	}
}

// ArbitrageRecord is a completed two-leg arbitrage: the unwind trade plus
// the strategic leg it closed.
type ArbitrageRecord struct {
	TradeRecord
	OriginalPrice int64 `json:"original_price"`
	Profit        int64 `json:"profit"`
	WaitTime      int64 `json:"wait_time"`
	TargetPrice   int64 `json:"target_price"`
}

func (ArbitrageRecord) Header() []string {
	return append(TradeRecord{}.Header(), "original_price", "profit", "wait_time", "target_price")
}

func (r ArbitrageRecord) Values() []string {
	return append(r.TradeRecord.Values(), itoa(r.OriginalPrice), itoa(r.Profit), itoa(r.WaitTime), itoa(r.TargetPrice))
}

// RejectedRecord is a strategic order whose plan never completed.
type RejectedRecord struct {
	OrderID  int64  `json:"oid"`
	TraderID int64  `json:"tid"`
	Side     string `json:"otype"`
	Good     string `json:"ptype"`
	Price    int64  `json:"price"`
	Target   int64  `json:"target_price"`
	Time     int64  `json:"time"`
	Run      int    `json:"run"`
}

func (RejectedRecord) Header() []string {
	return []string{"oid", "tid", "otype", "ptype", "price", "target_price", "time", "run"}
}

func (r RejectedRecord) Values() []string {
	return []string{
		itoa(r.OrderID), itoa(r.TraderID), r.Side, r.Good, itoa(r.Price),
		itoa(r.Target), itoa(r.Time), itoa(int64(r.Run)),
	}
}

// Set holds everything one experiment produced.
type Set struct {
	Experiment uuid.UUID
	Utility    []UtilityRecord
	Trades     []TradeRecord
	Excess     []ExcessRecord
	Arbitrage  []ArbitrageRecord
	Rejected   []RejectedRecord
}

// Category is a named group of rows.
type Category struct {
	Name string
	Rows []Row
}

// Categories returns the non-empty record groups in export order.
func (s *Set) Categories() []Category {
	var out []Category
	add := func(name string, n int, at func(int) Row) {
		if n == 0 {
			return
		}
		rows := make([]Row, n)
		for i := range rows {
			rows[i] = at(i)
		}
		out = append(out, Category{Name: name, Rows: rows})
	}
	add(CategoryUtil, len(s.Utility), func(i int) Row { return s.Utility[i] })
	add(CategoryTrade, len(s.Trades), func(i int) Row { return s.Trades[i] })
	add(CategoryExcess, len(s.Excess), func(i int) Row { return s.Excess[i] })
	add(CategoryArbitrage, len(s.Arbitrage), func(i int) Row { return s.Arbitrage[i] })
	add(CategoryRejected, len(s.Rejected), func(i int) Row { return s.Rejected[i] })
	return out
}
