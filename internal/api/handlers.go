package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/j-veylop/vahan-dashboard-tui/internal/metrics"
	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
	"github.com/j-veylop/vahan-dashboard-tui/internal/query"
)

const maxRecordLimit = 10000

type dataRequest struct {
	From         string `query:"from" validate:"omitempty,datetime=2006-01"`
	To           string `query:"to" validate:"omitempty,datetime=2006-01"`
	Manufacturer string `query:"manufacturer"`
}

type summaryRequest struct {
	dataRequest
	Series string `query:"series" validate:"omitempty,vehicleseries"`
}

// summaryResponse carries the dashboard card values.
type summaryResponse struct {
	Manufacturer       string   `json:"manufacturer"`
	Series             string   `json:"series"`
	Months             int      `json:"months"`
	LatestDate         string   `json:"latestDate,omitempty"`
	TotalRegistrations int64    `json:"totalRegistrations"`
	TotalYoYGrowth     *float64 `json:"totalYoYGrowth"`
	TotalQoQGrowth     *float64 `json:"totalQoQGrowth"`
	SeriesLatest       int64    `json:"seriesLatest"`
	SeriesYoYGrowth    *float64 `json:"seriesYoYGrowth"`
	SeriesQoQGrowth    *float64 `json:"seriesQoQGrowth"`
	SeriesInRange      int64    `json:"seriesInRange"`
	TopRegistrations   int64    `json:"topRegistrations"`
	ManufacturerYoY    *float64 `json:"manufacturerYoYGrowth"`
	ManufacturerQoQ    *float64 `json:"manufacturerQoQGrowth"`
}

type recordsRequest struct {
	From         string `query:"from" validate:"omitempty,datetime=2006-01"`
	To           string `query:"to" validate:"omitempty,datetime=2006-01"`
	Manufacturer string `query:"manufacturer"`
	VehicleType  string `query:"vehicleType" validate:"omitempty,vehicletype"`
	Limit        int    `query:"limit" validate:"gte=0,lte=10000"`
}

// bounds parses the validated month range.
func (r dataRequest) bounds() (from, to *models.Period, err error) {
	if r.From != "" {
		p, _ := models.ParsePeriod(r.From)
		from = &p
	}
	if r.To != "" {
		p, _ := models.ParsePeriod(r.To)
		to = &p
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "from must not be after to")
	}
	return from, to, nil
}

func (r dataRequest) filtered() bool {
	return r.From != "" || r.To != "" || r.Manufacturer != ""
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// getData returns the dashboard payload. Query parameters narrow the
// series; totals always describe the whole dataset.
func (s *Server) getData(c echo.Context) error {
	var req dataRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	from, to, err := req.bounds()
	if err != nil {
		return err
	}

	payload, err := s.backend.Payload(c.Request().Context())
	if err != nil {
		return err
	}

	if req.filtered() {
		payload = query.Filter(payload, query.Selection{
			Range:        models.DateRangeAllTime,
			Manufacturer: req.Manufacturer,
			From:         from,
			To:           to,
		})
	}
	return c.JSON(http.StatusOK, payload)
}

// getSummary returns the card values for a window, vehicle series and
// manufacturer.
func (s *Server) getSummary(c echo.Context) error {
	var req summaryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	from, to, err := req.bounds()
	if err != nil {
		return err
	}
	series, _ := models.ParseVehicleSeries(req.Series)

	payload, err := s.backend.Payload(c.Request().Context())
	if err != nil {
		return err
	}

	sum := query.Summarize(payload, query.Selection{
		Range:        models.DateRangeAllTime,
		Series:       series,
		Manufacturer: req.Manufacturer,
		From:         from,
		To:           to,
	})

	resp := summaryResponse{
		Manufacturer:       sum.Manufacturer,
		Series:             series.String(),
		Months:             sum.Months,
		TotalRegistrations: sum.TotalRegistrations,
		TotalYoYGrowth:     sum.TotalYoYGrowth,
		TotalQoQGrowth:     sum.TotalQoQGrowth,
		SeriesLatest:       sum.SeriesLatest,
		SeriesInRange:      sum.SeriesWindow,
		TopRegistrations:   sum.TopRegistrations,
		ManufacturerYoY:    sum.ManufacturerYoY,
		ManufacturerQoQ:    sum.ManufacturerQoQ,
	}
	if sum.Latest != nil {
		resp.LatestDate = sum.Latest.Date
		resp.SeriesYoYGrowth = query.SeriesGrowth(payload, series, sum.Latest.Date, metrics.YearOffset)
		resp.SeriesQoQGrowth = query.SeriesGrowth(payload, series, sum.Latest.Date, metrics.QuarterOffset)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) getManufacturers(c echo.Context) error {
	payload, err := s.backend.Payload(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, query.ManufacturerNames(payload))
}

func (s *Server) getRecords(c echo.Context) error {
	var req recordsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	from, to, err := dataRequest{From: req.From, To: req.To}.bounds()
	if err != nil {
		return err
	}

	filter := models.RecordFilter{
		VehicleType:  req.VehicleType,
		Manufacturer: req.Manufacturer,
		Limit:        req.Limit,
	}
	if filter.Limit == 0 {
		filter.Limit = maxRecordLimit
	}
	if from != nil {
		filter.From = from.Start()
	}
	if to != nil {
		filter.To = to.End()
	}

	records, err := s.backend.Records(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	if records == nil {
		records = []models.RegistrationRecord{}
	}
	return c.JSON(http.StatusOK, records)
}
