package handlers

import (
	"log"
	"net/http"

	"movecalc/internal/affordability"
	"movecalc/internal/api/models"
	"movecalc/internal/model"
	"movecalc/internal/money"
	"movecalc/internal/report"

	"github.com/gin-gonic/gin"
)

// CalculateHandler serves the stateless calculation endpoints.
type CalculateHandler struct{}

func NewCalculateHandler() *CalculateHandler {
	return &CalculateHandler{}
}

// Calculate handles POST /api/v1/calculate
func (h *CalculateHandler) Calculate(c *gin.Context) {
	var in model.Inputs
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res := affordability.Recalculate(in)
	c.JSON(http.StatusOK, models.CalculateResponse{
		Inputs:  in,
		Results: res,
		Display: buildDisplay(in, res),
	})
}

func buildDisplay(in model.Inputs, res model.Results) models.Display {
	breakdown := affordability.TaxBreakdown(in.PropertyPrice, in.IsFirstTimeBuyer)
	if breakdown == nil {
		breakdown = []model.BandCharge{}
	}
	return models.Display{
		PropertyPrice:         money.Format(in.PropertyPrice),
		TransferTax:           money.Format(res.TransferTax),
		BuyingCosts:           money.Format(res.BuyingCosts),
		TotalTransactionCosts: money.Format(res.TotalTransactionCosts),
		TotalLiquidFunds:      money.Format(res.TotalLiquidFunds),
		DepositAvailable:      money.Format(res.DisplayDeposit()),
		LoanAmount:            money.Format(res.LoanAmount),
		MonthlyPayment:        money.Format(res.MonthlyPayment),
		TotalRepayable:        money.Format(res.TotalRepayable),
		TotalInterest:         money.Format(res.TotalInterest),
		LoanToValue:           money.Percent(res.LoanToValue(in.PropertyPrice)),
		FundingStatus:         res.FundingStatus(),
		TaxBreakdown:          breakdown,
	}
}

// Schedule handles POST /api/v1/schedule (?format=csv for a download)
func (h *CalculateHandler) Schedule(c *gin.Context) {
	var in model.Inputs
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	rows, err := affordability.Schedule(in, affordability.Recalculate(in))
	if err != nil {
		writeError(c, err, "SCHEDULE_ERROR")
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="schedule.csv"`)
		c.Status(http.StatusOK)
		if err := affordability.WriteScheduleCSV(c.Writer, rows); err != nil {
			log.Printf("[API] write schedule csv: %v", err)
		}
		return
	}

	if rows == nil {
		rows = []affordability.ScheduleRow{}
	}
	c.JSON(http.StatusOK, models.ScheduleResponse{Count: len(rows), Rows: rows})
}

// Report handles POST /api/v1/report (?format=html for an HTML fragment)
func (h *CalculateHandler) Report(c *gin.Context) {
	var in model.Inputs
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	md := report.Markdown(in, affordability.Recalculate(in))

	if c.Query("format") == "html" {
		html, err := report.HTML(md)
		if err != nil {
			writeError(c, err, "RENDER_ERROR")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}
