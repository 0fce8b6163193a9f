package handlers

import (
	"net/http"

	"movecalc/internal/affordability"
	"movecalc/internal/api/models"
	"movecalc/internal/model"

	"github.com/gin-gonic/gin"
)

// ListTaxBands handles GET /api/v1/tax-bands
func ListTaxBands(c *gin.Context) {
	c.JSON(http.StatusOK, models.TaxBandsResponse{
		ReliefThreshold: affordability.FirstTimeBuyerReliefThreshold,
		Standard:        bandInfo(affordability.StandardBands),
		FirstTimeBuyer:  bandInfo(affordability.FirstTimeBuyerBands),
	})
}

func bandInfo(bands []model.TaxBand) []models.TaxBandInfo {
	out := make([]models.TaxBandInfo, 0, len(bands))
	from := 0.0
	for _, b := range bands {
		info := models.TaxBandInfo{From: from, Rate: b.Rate}
		if !b.Unbounded() {
			upper := b.Upper
			info.UpTo = &upper
		}
		out = append(out, info)
		from = b.Upper
	}
	return out
}
