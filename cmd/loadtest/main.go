package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

const defaultQty = 1

type loadMode string

const (
	modeSubmit     loadMode = "submit"
	modeSubmitGet  loadMode = "submit-get"
	modeSubmitList loadMode = "submit-list"
)

type config struct {
	baseURL     string
	token       string
	productID   string
	quantity    int
	price       decimal.Decimal
	address     string
	payment     string
	total       int
	totalSet    bool
	duration    time.Duration
	concurrency int
	timeout     time.Duration
	mode        loadMode
	outputPath  string
}

type latencySummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type methodReport struct {
	Calls     int64            `json:"calls"`
	Success   int64            `json:"success"`
	Failed    int64            `json:"failed"`
	ErrorRate float64          `json:"error_rate"`
	Statuses  map[string]int64 `json:"statuses"`
	LatencyMs latencySummary   `json:"latency_ms"`
}

type report struct {
	StartedAt         time.Time               `json:"started_at"`
	DurationSeconds   float64                 `json:"duration_seconds"`
	TotalScenarios    int64                   `json:"total_scenarios"`
	SuccessScenarios  int64                   `json:"success_scenarios"`
	FailedScenarios   int64                   `json:"failed_scenarios"`
	ErrorRate         float64                 `json:"error_rate"`
	RPS               float64                 `json:"rps"`
	ScenarioLatencyMs latencySummary          `json:"scenario_latency_ms"`
	Methods           map[string]methodReport `json:"methods"`
}

type methodStats struct {
	calls     int64
	success   int64
	failed    int64
	statuses  map[string]int64
	latencies []float64
}

type collector struct {
	mu      sync.Mutex
	methods map[string]*methodStats
}

func newCollector() *collector {
	return &collector{
		methods: make(map[string]*methodStats),
	}
}

func (c *collector) record(method string, latency time.Duration, status string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, found := c.methods[method]
	if !found {
		stats = &methodStats{
			statuses: make(map[string]int64),
		}
		c.methods[method] = stats
	}

	stats.calls++
	if ok {
		stats.success++
	} else {
		stats.failed++
	}
	stats.statuses[status]++
	stats.latencies = append(stats.latencies, float64(latency.Microseconds())/1000.0)
}

func (c *collector) snapshot(name string) (methodReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, ok := c.methods[name]
	if !ok {
		return methodReport{}, false
	}

	statusesCopy := make(map[string]int64, len(stats.statuses))
	for status, count := range stats.statuses {
		statusesCopy[status] = count
	}

	return methodReport{
		Calls:     stats.calls,
		Success:   stats.success,
		Failed:    stats.failed,
		ErrorRate: ratio(stats.failed, stats.calls),
		Statuses:  statusesCopy,
		LatencyMs: buildLatencySummary(stats.latencies),
	}, true
}

func (c *collector) buildReport(startedAt time.Time, duration time.Duration) report {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := report{
		StartedAt:       startedAt.UTC(),
		DurationSeconds: duration.Seconds(),
		Methods:         make(map[string]methodReport, len(c.methods)),
	}

	scenarioStats := c.methods["scenario"]
	if scenarioStats != nil {
		result.TotalScenarios = scenarioStats.calls
		result.SuccessScenarios = scenarioStats.success
		result.FailedScenarios = scenarioStats.failed
		result.ErrorRate = ratio(scenarioStats.failed, scenarioStats.calls)
		result.ScenarioLatencyMs = buildLatencySummary(scenarioStats.latencies)
	}
	if duration > 0 {
		result.RPS = float64(result.TotalScenarios) / duration.Seconds()
	}

	for name, stats := range c.methods {
		statusesCopy := make(map[string]int64, len(stats.statuses))
		for status, count := range stats.statuses {
			statusesCopy[status] = count
		}
		result.Methods[name] = methodReport{
			Calls:     stats.calls,
			Success:   stats.success,
			Failed:    stats.failed,
			ErrorRate: ratio(stats.failed, stats.calls),
			Statuses:  statusesCopy,
			LatencyMs: buildLatencySummary(stats.latencies),
		}
	}

	return result
}

func parseConfig() (config, error) {
	var cfg config
	var modeValue string
	var timeoutValue string
	var durationValue string
	var priceValue string

	flag.StringVar(&cfg.baseURL, "url", "http://localhost:8080", "base URL of the order API")
	flag.StringVar(&cfg.token, "token", "", "bearer token for API requests")
	flag.StringVar(&cfg.productID, "product", "", "catalog product id to order")
	flag.IntVar(&cfg.quantity, "quantity", defaultQty, "quantity per order item")
	flag.StringVar(&priceValue, "price", "", "catalog unit price of the product (used to declare the order total)")
	flag.StringVar(&cfg.address, "address", "1 Load Test Street", "shipping address for generated orders")
	flag.StringVar(&cfg.payment, "payment", "card", "payment method for generated orders")
	flag.IntVar(&cfg.total, "total", 400, "total scenarios to execute in count mode; in duration mode only used when explicitly set")
	flag.StringVar(&durationValue, "duration", "0s", "optional time-based run duration (e.g. 10m, 15m)")
	flag.IntVar(&cfg.concurrency, "concurrency", 40, "number of concurrent workers")
	flag.StringVar(&timeoutValue, "timeout", "5s", "per-request timeout")
	flag.StringVar(&modeValue, "mode", string(modeSubmit), "load mode: submit | submit-get | submit-list")
	flag.StringVar(&cfg.outputPath, "output", "", "optional JSON report output file path")
	flag.Parse()

	timeout, err := time.ParseDuration(strings.TrimSpace(timeoutValue))
	if err != nil {
		return cfg, fmt.Errorf("parse timeout: %w", err)
	}
	cfg.timeout = timeout

	duration, err := time.ParseDuration(strings.TrimSpace(durationValue))
	if err != nil {
		return cfg, fmt.Errorf("parse duration: %w", err)
	}
	cfg.duration = duration

	flag.CommandLine.Visit(func(f *flag.Flag) {
		if f.Name == "total" {
			cfg.totalSet = true
		}
	})

	mode, err := parseMode(modeValue)
	if err != nil {
		return cfg, err
	}
	cfg.mode = mode

	price, err := decimal.NewFromString(strings.TrimSpace(priceValue))
	if err != nil {
		return cfg, fmt.Errorf("parse price: %w", err)
	}
	cfg.price = price

	if cfg.duration < 0 {
		return cfg, errors.New("duration must be >= 0")
	}
	if cfg.duration == 0 && cfg.total <= 0 {
		return cfg, errors.New("total must be > 0 when duration is not set")
	}
	if cfg.duration > 0 && cfg.totalSet && cfg.total <= 0 {
		return cfg, errors.New("total must be > 0 when explicitly set with duration")
	}
	if cfg.concurrency <= 0 {
		return cfg, errors.New("concurrency must be > 0")
	}
	if cfg.timeout <= 0 {
		return cfg, errors.New("timeout must be > 0")
	}
	if cfg.quantity <= 0 {
		return cfg, errors.New("quantity must be > 0")
	}
	if !cfg.price.IsPositive() {
		return cfg, errors.New("price must be > 0")
	}
	if strings.TrimSpace(cfg.baseURL) == "" {
		return cfg, errors.New("url is required")
	}
	if strings.TrimSpace(cfg.token) == "" {
		return cfg, errors.New("token is required")
	}
	if strings.TrimSpace(cfg.productID) == "" {
		return cfg, errors.New("product is required")
	}

	cfg.baseURL = strings.TrimRight(strings.TrimSpace(cfg.baseURL), "/")
	return cfg, nil
}

func parseMode(value string) (loadMode, error) {
	switch loadMode(strings.TrimSpace(value)) {
	case modeSubmit:
		return modeSubmit, nil
	case modeSubmitGet:
		return modeSubmitGet, nil
	case modeSubmitList:
		return modeSubmitList, nil
	default:
		return "", fmt.Errorf("unsupported mode: %s", value)
	}
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{
		Timeout: cfg.timeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: cfg.concurrency,
		},
	}

	startedAt := time.Now()
	col := newCollector()

	jobs := make(chan int, cfg.concurrency*2)
	var failures int64
	var wg sync.WaitGroup

	for workerID := 0; workerID < cfg.concurrency; workerID++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				if runErr := runScenario(client, cfg, id, col); runErr != nil {
					atomic.AddInt64(&failures, 1)
				}
			}
		}()
	}

	dispatchJobs(jobs, cfg)
	wg.Wait()

	duration := time.Since(startedAt)
	result := col.buildReport(startedAt, duration)
	if result.FailedScenarios == 0 && failures > 0 {
		result.FailedScenarios = failures
		result.ErrorRate = ratio(result.FailedScenarios, result.TotalScenarios)
	}

	printReport(result, cfg)
	if cfg.outputPath != "" {
		if err := writeJSONReport(cfg.outputPath, result); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
			os.Exit(1)
		}
	}

	if result.FailedScenarios > 0 {
		os.Exit(1)
	}
}

func dispatchJobs(jobs chan<- int, cfg config) {
	defer close(jobs)

	if cfg.duration <= 0 {
		for i := 0; i < cfg.total; i++ {
			jobs <- i
		}
		return
	}

	timer := time.NewTimer(cfg.duration)
	defer timer.Stop()

	for i := 0; ; i++ {
		if cfg.totalSet && i >= cfg.total {
			return
		}

		select {
		case <-timer.C:
			return
		case jobs <- i:
		}
	}
}

func runScenario(client *http.Client, cfg config, index int, col *collector) error {
	scenarioStart := time.Now()
	scenarioStatus := "ok"
	scenarioOK := true
	defer func() {
		col.record("scenario", time.Since(scenarioStart), scenarioStatus, scenarioOK)
	}()

	orderID, err := callSubmitOrder(client, cfg, col)
	if err != nil {
		scenarioStatus, scenarioOK = "error", false
		return err
	}
	if orderID == "" {
		scenarioStatus, scenarioOK = "error", false
		return errors.New("submit response returned empty order id")
	}

	switch cfg.mode {
	case modeSubmitGet:
		if err := callGetOrder(client, cfg, orderID, col); err != nil {
			scenarioStatus, scenarioOK = "error", false
			return err
		}
	case modeSubmitList:
		if err := callListOrders(client, cfg, index, col); err != nil {
			scenarioStatus, scenarioOK = "error", false
			return err
		}
	}

	return nil
}

type submitOrderBody struct {
	Items []struct {
		Product  string `json:"product"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
}

type submitOrderResult struct {
	Success bool `json:"success"`
	Order   struct {
		ID string `json:"id"`
	} `json:"order"`
}

func callSubmitOrder(client *http.Client, cfg config, col *collector) (string, error) {
	body := submitOrderBody{
		Total:           cfg.price.Mul(decimal.NewFromInt(int64(cfg.quantity))),
		ShippingAddress: cfg.address,
		PaymentMethod:   cfg.payment,
	}
	body.Items = append(body.Items, struct {
		Product  string `json:"product"`
		Quantity int    `json:"quantity"`
	}{Product: cfg.productID, Quantity: cfg.quantity})

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := doRequest(client, cfg, http.MethodPost, cfg.baseURL+"/api/orders", payload)
	latency := time.Since(start)
	if err != nil {
		col.record("SubmitOrder", latency, "error", false)
		return "", err
	}
	defer drainAndClose(resp)

	ok := resp.StatusCode == http.StatusCreated
	col.record("SubmitOrder", latency, fmt.Sprintf("%d", resp.StatusCode), ok)
	if !ok {
		return "", fmt.Errorf("submit order: unexpected status %d", resp.StatusCode)
	}

	var result submitOrderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	return result.Order.ID, nil
}

func callGetOrder(client *http.Client, cfg config, orderID string, col *collector) error {
	start := time.Now()
	resp, err := doRequest(client, cfg, http.MethodGet, cfg.baseURL+"/api/orders/"+orderID, nil)
	latency := time.Since(start)
	if err != nil {
		col.record("GetOrder", latency, "error", false)
		return err
	}
	defer drainAndClose(resp)

	ok := resp.StatusCode == http.StatusOK
	col.record("GetOrder", latency, fmt.Sprintf("%d", resp.StatusCode), ok)
	if !ok {
		return fmt.Errorf("get order: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func callListOrders(client *http.Client, cfg config, index int, col *collector) error {
	page := index%5 + 1
	url := fmt.Sprintf("%s/api/orders?page=%d&limit=10", cfg.baseURL, page)

	start := time.Now()
	resp, err := doRequest(client, cfg, http.MethodGet, url, nil)
	latency := time.Since(start)
	if err != nil {
		col.record("ListOrders", latency, "error", false)
		return err
	}
	defer drainAndClose(resp)

	ok := resp.StatusCode == http.StatusOK
	col.record("ListOrders", latency, fmt.Sprintf("%d", resp.StatusCode), ok)
	if !ok {
		return fmt.Errorf("list orders: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func doRequest(client *http.Client, cfg config, method, url string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return client.Do(req)
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func writeJSONReport(path string, result report) error {
	cleanPath := filepath.Clean(path)
	if cleanPath == "." || cleanPath == string(filepath.Separator) {
		return errors.New("output path must point to a file")
	}
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("output path must be inside current directory: %s", path)
	}

	// #nosec G304 -- path is an explicit CLI output parameter for local load-test reports.
	file, err := os.Create(cleanPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func printReport(result report, cfg config) {
	fmt.Println("Load test summary")
	fmt.Printf("mode=%s run=%s total=%d success=%d failed=%d error_rate=%.4f\n",
		cfg.mode,
		runTarget(cfg),
		result.TotalScenarios,
		result.SuccessScenarios,
		result.FailedScenarios,
		result.ErrorRate,
	)
	fmt.Printf("duration=%.2fs rps=%.2f\n", result.DurationSeconds, result.RPS)
	fmt.Printf("scenario latency ms: min=%.2f avg=%.2f p50=%.2f p95=%.2f p99=%.2f max=%.2f\n",
		result.ScenarioLatencyMs.Min,
		result.ScenarioLatencyMs.Avg,
		result.ScenarioLatencyMs.P50,
		result.ScenarioLatencyMs.P95,
		result.ScenarioLatencyMs.P99,
		result.ScenarioLatencyMs.Max,
	)

	methodNames := make([]string, 0, len(result.Methods))
	for name := range result.Methods {
		if name == "scenario" {
			continue
		}
		methodNames = append(methodNames, name)
	}
	sort.Strings(methodNames)
	for _, name := range methodNames {
		stats := result.Methods[name]
		fmt.Printf(
			"%s: calls=%d success=%d failed=%d error_rate=%.4f p95=%.2fms\n",
			name,
			stats.Calls,
			stats.Success,
			stats.Failed,
			stats.ErrorRate,
			stats.LatencyMs.P95,
		)
	}
}

func runTarget(cfg config) string {
	if cfg.duration <= 0 {
		return fmt.Sprintf("count:%d", cfg.total)
	}
	if cfg.totalSet {
		return fmt.Sprintf("duration:%s,max-total:%d", cfg.duration, cfg.total)
	}
	return fmt.Sprintf("duration:%s", cfg.duration)
}

func buildLatencySummary(values []float64) latencySummary {
	if len(values) == 0 {
		return latencySummary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, value := range sorted {
		sum += value
	}

	return latencySummary{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
		P50: percentile(sorted, 50),
		P95: percentile(sorted, 95),
		P99: percentile(sorted, 99),
	}
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}

	weight := rank - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*weight
}

func ratio(failed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(failed) / float64(total)
}
