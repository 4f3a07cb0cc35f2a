package tool

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

type fakeSearcher struct {
	answer  string
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func resultMap(t *testing.T, out contractx.ToolResult) map[string]any {
	t.Helper()

	if out.Error != "" {
		t.Fatalf("unexpected tool error: %s", out.Error)
	}
	m, ok := out.Result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected result type: %T", out.Result)
	}
	return m
}

func TestForAgentSubset(t *testing.T) {
	t.Parallel()

	c := NewCatalog(Deps{})
	infos, exec := c.ForAgent(contractx.AgentTypeMoney, MoneyFinancialAdvice, MathEvaluate, "nope", MathEvaluate)
	if len(infos) != 2 {
		t.Fatalf("expected 2 tool infos, got %d", len(infos))
	}
	if infos[0].Name != MoneyFinancialAdvice || infos[1].Name != MathEvaluate {
		t.Fatalf("unexpected tools: %s, %s", infos[0].Name, infos[1].Name)
	}

	out, err := exec(context.Background(), PaymentInitiate, map[string]any{})
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	if out.Error == "" {
		t.Fatal("expected unavailable error for tool outside the agent subset")
	}
}

func TestCatalogNames(t *testing.T) {
	t.Parallel()

	names := NewCatalog(Deps{}).Names()
	if len(names) != 12 {
		t.Fatalf("Names() len = %d, want 12: %v", len(names), names)
	}
	if names[0] != WebSearch {
		t.Fatalf("Names()[0] = %s, want %s", names[0], WebSearch)
	}
}

func TestMathEvaluateThroughExecutor(t *testing.T) {
	t.Parallel()

	_, exec := NewCatalog(Deps{}).ForAgent(contractx.AgentTypePayment, MathEvaluate)
	out, err := exec(context.Background(), MathEvaluate, map[string]any{"expression": "2 + 3 * (4 - 1)"})
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	m := resultMap(t, out)
	if m["result"] != 11.0 {
		t.Fatalf("result = %v, want 11", m["result"])
	}
	if m["agent_type"] != "payment" || m["status"] != contractx.StatusSuccess {
		t.Fatalf("result not stamped: %#v", m)
	}

	out, err = exec(context.Background(), MathEvaluate, map[string]any{"expression": "2 + abc"})
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	if out.Error == "" {
		t.Fatal("expected argument error")
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"1 + 2 * 3":      7,
		"(1 + 2) * 3":    9,
		"-2 ^ 2":         -4,
		"2 ^ -1":         0.5,
		"2 ^ 3 ^ 2":      512,
		"10 % 4":         2,
		"1200,50 - 0,50": 1200,
		"2 * -3":         -6,
	}
	for expr, want := range cases {
		got, err := Evaluate(expr)
		if err != nil {
			t.Fatalf("Evaluate(%q) error = %v", expr, err)
		}
		if got != want {
			t.Fatalf("Evaluate(%q) = %v, want %v", expr, got, want)
		}
	}

	for _, bad := range []string{"", "1 / 0", "(1 + 2", "1 + 2)", "3 +", "1..2"} {
		if _, err := Evaluate(bad); err == nil {
			t.Fatalf("Evaluate(%q) expected error", bad)
		}
	}
}

func TestSearchToolsWithoutSearcher(t *testing.T) {
	t.Parallel()

	_, exec := NewCatalog(Deps{}).ForAgent(contractx.AgentTypeHealth, WebSearch)
	out, err := exec(context.Background(), WebSearch, map[string]any{"query": "vacunas"})
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	m := resultMap(t, out)
	if m["status"] != contractx.StatusError {
		t.Fatalf("status = %v, want error", m["status"])
	}
}

func TestGovernmentInfoScopesQuery(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{answer: "El trámite se hace en línea."}
	_, exec := NewCatalog(Deps{Search: s}).ForAgent(contractx.AgentTypeGovernment, GovernmentInfo)

	out, err := exec(context.Background(), GovernmentInfo, map[string]any{
		"country": "Chile",
		"city":    "Santiago",
		"query":   "renovar pasaporte",
	})
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	m := resultMap(t, out)
	if m["data"] != s.answer || m["city"] != "Santiago" {
		t.Fatalf("unexpected result: %#v", m)
	}
	if len(s.queries) != 1 || !strings.Contains(s.queries[0], "renovar pasaporte en Santiago, Chile") {
		t.Fatalf("queries = %#v", s.queries)
	}

	out, _ = exec(context.Background(), GovernmentInfo, map[string]any{"country": "Chile"})
	if out.Error == "" {
		t.Fatal("expected argument error for missing city")
	}
}

func TestWorldBankIndicator(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/country/MEX/indicator/NY.GDP.PCAP.CD" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[{"page":1},[{"date":"2024","value":null},{"date":"2023","value":13926.1}]]`)
	}))
	t.Cleanup(server.Close)

	c := NewCatalog(Deps{HTTPClient: server.Client(), Money: MoneyConfig{WorldBankURL: server.URL}})
	_, exec := c.ForAgent(contractx.AgentTypeMoney, MoneyWorldBankIndicator)

	out, err := exec(context.Background(), MoneyWorldBankIndicator, map[string]any{"country_code": "MEX", "indicator": "NY.GDP.PCAP.CD"})
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	m := resultMap(t, out)
	if m["value"] != 13926.1 || m["date"] != "2023" {
		t.Fatalf("unexpected result: %#v", m)
	}
}

func TestClimateTemperatureUpstreamFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	c := NewCatalog(Deps{HTTPClient: server.Client(), Climate: ClimateConfig{BaseURL: server.URL, APIKey: "k"}})
	_, exec := c.ForAgent(contractx.AgentTypeClimate, ClimateTemperature, ClimateEnvironmentRisk)

	out, err := exec(context.Background(), ClimateTemperature, map[string]any{"lat": 19.4, "lon": -99.1})
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	m := resultMap(t, out)
	if m["status"] != contractx.StatusError || !strings.Contains(fmt.Sprint(m["message"]), "429") {
		t.Fatalf("unexpected result: %#v", m)
	}

	out, _ = exec(context.Background(), ClimateEnvironmentRisk, map[string]any{"country": "Argentina"})
	m = resultMap(t, out)
	if m["status"] != contractx.StatusSuccess || m["risk"] == nil {
		t.Fatalf("unexpected risk result: %#v", m)
	}
}

func TestPaymentInitiate(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.Method != http.MethodPost || r.URL.Path != "/payments/v2/transactions" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"transactionId":"tx-1","status":"PENDING","paymentUrl":"https://pay/1"}`)
	}))
	t.Cleanup(server.Close)

	cfg := PaymentConfig{BaseURL: server.URL, ShopID: "shop", SecretKey: "secret"}
	_, exec := NewCatalog(Deps{HTTPClient: server.Client(), Payment: cfg}).ForAgent(contractx.AgentTypePayment, PaymentInitiate)

	out, err := exec(context.Background(), PaymentInitiate, map[string]any{"amount": 25.5, "currency": "usd", "recipient": "ana@example.com"})
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	m := resultMap(t, out)
	if m["transaction_id"] != "tx-1" || m["payment_status"] != "PENDING" {
		t.Fatalf("unexpected result: %#v", m)
	}
	if !strings.HasPrefix(gotAuth, "Basic ") {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestPaymentUnconfigured(t *testing.T) {
	t.Parallel()

	_, exec := NewCatalog(Deps{}).ForAgent(contractx.AgentTypePayment, PaymentStatus)
	out, err := exec(context.Background(), PaymentStatus, map[string]any{"transaction_id": "tx-1"})
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	m := resultMap(t, out)
	if m["status"] != contractx.StatusError {
		t.Fatalf("status = %v, want error", m["status"])
	}
}

func TestEnergyTips(t *testing.T) {
	t.Parallel()

	_, exec := NewCatalog(Deps{}).ForAgent(contractx.AgentTypeEnergy, EnergySustainabilityTip)
	out, err := exec(context.Background(), EnergySustainabilityTip, nil)
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	m := resultMap(t, out)
	tips, ok := m["tips"].([]string)
	if !ok || len(tips) != len(sustainabilityTips) {
		t.Fatalf("tips = %#v", m["tips"])
	}
}

func TestExecutorPropagatesCancellation(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{err: context.Canceled}
	_, exec := NewCatalog(Deps{Search: s}).ForAgent(contractx.AgentTypeHealth, WebSearch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := exec(ctx, WebSearch, map[string]any{"query": "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("executor error = %v, want context.Canceled", err)
	}
}
