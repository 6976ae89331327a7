package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huertalab/durazno/internal/store"
)

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	r1, err := mock.Generate(context.Background(), Request{Messages: UserMessage("first")})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(r1.Content))
	assert.Equal(t, 10, r1.Usage.InputTokens)

	r2, err := mock.Generate(context.Background(), Request{Messages: UserMessage("second")})
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(r2.Content))

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)
	assert.Equal(t, 3, mock.CallCount())
	assert.Equal(t, "second", mock.Calls[1].Messages[0].Content)
}

func retryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

func TestRetry(t *testing.T) {
	down := &ErrProviderUnavailable{Err: errors.New("down")}
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}

	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{name: "first attempt", responses: []MockResponse{ok}, wantCalls: 1},
		{name: "transient then success", responses: []MockResponse{{Err: down}, ok}, wantCalls: 2},
		{name: "all fail", responses: []MockResponse{{Err: down}, {Err: down}, {Err: down}, ok}, wantErr: true, wantCalls: 3},
		{name: "rate limit", responses: []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, ok}, wantCalls: 2},
		{name: "max tokens not retried", responses: []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok}, wantErr: true, wantCalls: 1},
		{
			name: "invalid response retried once",
			responses: []MockResponse{
				{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
				{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
				ok,
			},
			wantErr:   true,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			_, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_ContextCanceledDuringBackoff(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}}, MockResponse{})
	cfg := RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestValidateResponse(t *testing.T) {
	schema := adviceTestSchema()

	assert.NoError(t, validateResponse(nil, json.RawMessage(`not json`)))
	assert.NoError(t, validateResponse(schema, json.RawMessage(adviceJSON)))

	bad := []string{
		`not json`,
		`{"summary":"x","actions":[],"urgency":"whenever"}`,
		`{"summary":"x","actions":"one","urgency":"low"}`,
		`{"summary":"x","actions":[],"urgency":"low","extra":1}`,
	}
	for _, raw := range bad {
		err := validateResponse(schema, json.RawMessage(raw))
		var invalid *ErrInvalidResponse
		if !errors.As(err, &invalid) {
			t.Errorf("validateResponse(%s) = %v, want ErrInvalidResponse", raw, err)
		}
	}
}

type memoryEventRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (m *memoryEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	m.events = append(m.events, data)
	return m.err
}

func TestWithEventLog_RecordsSuccessAndFailure(t *testing.T) {
	repo := &memoryEventRepo{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(adviceJSON), Usage: Usage{InputTokens: 12, OutputTokens: 8}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
	)
	p := WithEventLog(mock, ProviderMock, repo, nil)
	ctx := WithPurpose(context.Background(), PurposeTreatmentAdvice)

	_, err := p.Generate(ctx, Request{System: "sys", Messages: UserMessage("hola"), Schema: adviceTestSchema()})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{Messages: UserMessage("otra")})
	require.Error(t, err)

	require.Len(t, repo.events, 2)
	first := repo.events[0]
	assert.Equal(t, PurposeTreatmentAdvice, first.Purpose)
	assert.Equal(t, ProviderMock, first.Provider)
	assert.True(t, first.Success)
	assert.Equal(t, 12, first.InputTokens)
	assert.True(t, strings.Contains(first.RequestBody, "[system]\nsys"))
	assert.Contains(t, first.RequestBody, "[schema: test-advice]")
	assert.JSONEq(t, adviceJSON, first.ResponseBody)

	assert.False(t, repo.events[1].Success)
	assert.Contains(t, repo.events[1].ErrorMessage, "rate limited")
}

func TestWithEventLog_StoreFailureDoesNotFailRequest(t *testing.T) {
	repo := &memoryEventRepo{err: errors.New("disk full")}
	p := WithEventLog(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), ProviderMock, repo, nil)

	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestPurposeFrom_Default(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DURAZNO_LLM_PROVIDER", "openai")
	t.Setenv("DURAZNO_OPENAI_API_KEY", "sk-test")
	t.Setenv("DURAZNO_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("DURAZNO_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.OpenAI.Model)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DURAZNO_ANTHROPIC_API_KEY")

	cfg.Provider = ProviderMock
	assert.NoError(t, cfg.Validate())

	cfg.Provider = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "o", cfg.OpenAI.APIKey)
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	_, err = NewProvider(context.Background(), Config{Provider: "nope"}, nil, nil)
	assert.Error(t, err)
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)
	assert.Nil(t, LookupCost("unknown-model"))
}
