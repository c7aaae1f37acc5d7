package ginserver

import (
	"errors"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vshulcz/rtl433-exporter/internal/domain"
	"github.com/vshulcz/rtl433-exporter/internal/ports"
	"github.com/vshulcz/rtl433-exporter/internal/services/monitor"
)

// StatsSource reports the progress of the stream loop.
type StatsSource interface {
	State() monitor.State
	Stats() monitor.Stats
}

// Handler exposes the scrape endpoint and a small device overview.
type Handler struct {
	metrics http.Handler
	devices ports.DeviceRepo
	stats   StatsSource
}

// NewHandler wires a gatherer, the device repository and the loop stats; stats may be nil.
func NewHandler(g prometheus.Gatherer, devices ports.DeviceRepo, stats StatsSource) *Handler {
	return &Handler{
		metrics: promhttp.HandlerFor(g, promhttp.HandlerOpts{}),
		devices: devices,
		stats:   stats,
	}
}

type deviceView struct {
	LastSeen    time.Time `json:"last_seen"`
	Temperature *float64  `json:"temperature,omitempty"`
	Humidity    *float64  `json:"humidity,omitempty"`
	Model       string    `json:"model"`
	DeviceID    int64     `json:"device_id"`
	Readings    int64     `json:"readings"`
}

func toView(d domain.Device) deviceView {
	return deviceView{
		DeviceID:    d.DeviceID,
		Model:       d.Model,
		Temperature: d.Temperature,
		Humidity:    d.Humidity,
		LastSeen:    d.LastSeen,
		Readings:    d.Readings,
	}
}

// Metrics handles `GET /metrics` in the Prometheus exposition format.
func (h *Handler) Metrics(c *gin.Context) {
	h.metrics.ServeHTTP(c.Writer, c.Request)
}

// Ping handles `GET /ping` with the loop state.
func (h *Handler) Ping(c *gin.Context) {
	state := "running"
	if h.stats != nil {
		state = h.stats.State().String()
	}
	c.String(http.StatusOK, state)
}

// Devices handles `GET /devices` listing every accepted device as JSON.
func (h *Handler) Devices(c *gin.Context) {
	snap, err := h.devices.Snapshot(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}
	out := make([]deviceView, 0, len(snap))
	for _, d := range snap {
		out = append(out, toView(d))
	}
	c.JSON(http.StatusOK, out)
}

// Device handles `GET /devices/:id/:model`.
func (h *Handler) Device(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "bad request")
		return
	}
	d, err := h.devices.Get(c.Request.Context(), id, c.Param("model"))
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, toView(d))
}

// Index renders a basic HTML dashboard with the last values per device.
func (h *Handler) Index(c *gin.Context) {
	snap, err := h.devices.Snapshot(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}

	var sb strings.Builder
	sb.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>rtl_433 exporter</title>")
	sb.WriteString("<style>body{font-family:system-ui,Arial,sans-serif}table{border-collapse:collapse}td,th{border:1px solid #ddd;padding:6px 10px}</style>")
	sb.WriteString("</head><body>")
	sb.WriteString("<h1>rtl_433 exporter</h1>")
	sb.WriteString("<p><a href='/metrics'>metrics</a></p>")

	if h.stats != nil {
		st := h.stats.Stats()
		sb.WriteString("<p>input: ")
		sb.WriteString(h.stats.State().String())
		sb.WriteString(", lines ")
		sb.WriteString(strconv.FormatInt(st.Lines, 10))
		sb.WriteString(", accepted ")
		sb.WriteString(strconv.FormatInt(st.Accepted, 10))
		sb.WriteString(", rejected ")
		sb.WriteString(strconv.FormatInt(st.Rejected, 10))
		sb.WriteString("</p>")
	}

	sb.WriteString("<h2>Devices</h2><table><tr><th>ID</th><th>Model</th><th>Temperature C</th><th>Humidity %</th><th>Readings</th><th>Last seen</th></tr>")
	for _, d := range snap {
		sb.WriteString("<tr><td>")
		sb.WriteString(strconv.FormatInt(d.DeviceID, 10))
		sb.WriteString("</td><td>")
		sb.WriteString(html.EscapeString(d.Model))
		sb.WriteString("</td><td>")
		sb.WriteString(formatValue(d.Temperature))
		sb.WriteString("</td><td>")
		sb.WriteString(formatValue(d.Humidity))
		sb.WriteString("</td><td>")
		sb.WriteString(strconv.FormatInt(d.Readings, 10))
		sb.WriteString("</td><td>")
		sb.WriteString(d.LastSeen.UTC().Format(time.RFC3339))
		sb.WriteString("</td></tr>")
	}
	sb.WriteString("</table>")

	sb.WriteString("</body></html>")

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(sb.String()))
}

func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func httpError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, domain.ErrNotFound):
		c.String(http.StatusNotFound, "not found")
	default:
		c.String(http.StatusInternalServerError, "internal error")
	}
}
