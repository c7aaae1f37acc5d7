package config

import (
	"flag"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vshulcz/rtl433-exporter/internal/domain"
	"github.com/vshulcz/rtl433-exporter/internal/jsoncodec"
	"github.com/vshulcz/rtl433-exporter/internal/misc"
)

const (
	defaultPort           = 9100
	defaultMetricBasename = "rtl433_weather_probe"
	defaultInput          = "-"
	defaultLogLevel       = "info"
)

// StdinInput selects standard input as the reading source.
const StdinInput = defaultInput

var metricNameRe = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)

type ExporterConfig struct {
	AllowedIDs     domain.AllowList
	LogLevel       zap.AtomicLevel
	MetricBasename string
	Input          string
	Port           int
	StrictValues   bool
	HostMetrics    bool
	RuntimeMetrics bool
}

// CLI > ENV > defaults
func LoadExporterConfig(args []string, out io.Writer) (ExporterConfig, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("exporter", flag.ContinueOnError)
	fs.SetOutput(out)

	var portOpt int
	var baseOpt string
	var idsOpt string
	var inputOpt string
	var levelOpt string
	var strictOpt bool
	var hostOpt bool
	var runtimeOpt bool

	fs.IntVar(&portOpt, "p", 0, fmt.Sprintf("metrics PORT, default: %d", defaultPort))
	fs.StringVar(&baseOpt, "b", "", fmt.Sprintf("METRIC_BASENAME for gauge names, default: %s", defaultMetricBasename))
	fs.StringVar(&idsOpt, "ids", "", "ALLOWED_IDS as JSON array or comma list, default: none")
	fs.StringVar(&inputOpt, "i", "", fmt.Sprintf("INPUT file with rtl_433 JSON lines, default: %s (stdin)", defaultInput))
	fs.StringVar(&levelOpt, "l", "", fmt.Sprintf("LOG_LEVEL, default: %s", defaultLogLevel))
	fs.BoolVar(&strictOpt, "strict", false, "STRICT_VALUES: stop on non-numeric temperature/humidity")
	fs.BoolVar(&hostOpt, "host-metrics", false, "HOST_METRICS: export host cpu/memory gauges")
	fs.BoolVar(&runtimeOpt, "runtime-metrics", false, "RUNTIME_METRICS: export Go runtime and process collectors")

	if err := fs.Parse(args); err != nil {
		return ExporterConfig{}, err
	}

	port := defaultPort
	if portOpt != 0 {
		port = portOpt
	} else if v, ok := misc.Lookup("PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ExporterConfig{}, fmt.Errorf("invalid port: %q", v)
		}
		port = n
	}
	if port < 1 || port > 65535 {
		return ExporterConfig{}, fmt.Errorf("invalid port: %d", port)
	}

	base := FromFlagOrEnv(baseOpt, "METRIC_BASENAME", defaultMetricBasename)
	if !metricNameRe.MatchString(base) {
		return ExporterConfig{}, fmt.Errorf("invalid metric basename: %q", base)
	}

	ids, err := ParseAllowedIDs(FromFlagOrEnv(idsOpt, "ALLOWED_IDS", ""))
	if err != nil {
		return ExporterConfig{}, err
	}

	level, err := zap.ParseAtomicLevel(FromFlagOrEnv(levelOpt, "LOG_LEVEL", defaultLogLevel))
	if err != nil {
		return ExporterConfig{}, fmt.Errorf("invalid log level: %w", err)
	}

	return ExporterConfig{
		Port:           port,
		MetricBasename: base,
		AllowedIDs:     ids,
		Input:          FromFlagOrEnv(inputOpt, "INPUT", defaultInput),
		LogLevel:       level,
		StrictValues:   FromFlagOrEnvBool(strictOpt, "STRICT_VALUES", false),
		HostMetrics:    FromFlagOrEnvBool(hostOpt, "HOST_METRICS", false),
		RuntimeMetrics: FromFlagOrEnvBool(runtimeOpt, "RUNTIME_METRICS", false),
	}, nil
}

// ParseAllowedIDs accepts a JSON array (`[1, 2, 3]`) or a comma separated list.
// An empty string yields the empty allow-list.
func ParseAllowedIDs(s string) (domain.AllowList, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.NewAllowList(), nil
	}
	if strings.HasPrefix(s, "[") {
		var ids []int64
		if err := jsoncodec.UnmarshalString(s, &ids); err != nil {
			return domain.AllowList{}, fmt.Errorf("invalid allowed ids %q: %w", s, err)
		}
		return domain.NewAllowList(ids...), nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return domain.AllowList{}, fmt.Errorf("invalid allowed id %q: %w", p, err)
		}
		ids = append(ids, n)
	}
	return domain.NewAllowList(ids...), nil
}
