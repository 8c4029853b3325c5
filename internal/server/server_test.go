package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	customerdomain "github.com/smallbiznis/invoicer/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/invoicer/internal/invoice/domain"
	"github.com/smallbiznis/invoicer/internal/observability"
	"github.com/smallbiznis/invoicer/internal/ownercontext"
	profiledomain "github.com/smallbiznis/invoicer/internal/profile/domain"
	"github.com/smallbiznis/invoicer/internal/providers/identity"
	summarydomain "github.com/smallbiznis/invoicer/internal/summary/domain"
	taxdomain "github.com/smallbiznis/invoicer/internal/tax/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeInvoiceService struct {
	createErr   error
	markPaidErr error
	getErr      error

	lastOwner    string
	lastCreate   invoicedomain.CreateInvoiceRequest
	lastList     invoicedomain.ListInvoiceRequest
	lastMarkID   string
	lastMarkPaid invoicedomain.MarkPaidRequest
	createCalls  int
}

func (f *fakeInvoiceService) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.InvoiceDetail, error) {
	f.createCalls++
	f.lastOwner, _ = ownercontext.OwnerIDFromContext(ctx)
	f.lastCreate = req
	if f.createErr != nil {
		return invoicedomain.InvoiceDetail{}, f.createErr
	}
	return invoicedomain.InvoiceDetail{Invoice: invoicedomain.Invoice{
		ID:       snowflake.ID(42),
		OwnerID:  f.lastOwner,
		Number:   "INV-2025-000001",
		Currency: req.Currency,
		Status:   invoicedomain.InvoiceStatusUnpaid,
	}}, nil
}

func (f *fakeInvoiceService) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	f.lastOwner, _ = ownercontext.OwnerIDFromContext(ctx)
	f.lastList = req
	return invoicedomain.ListInvoiceResponse{Invoices: []invoicedomain.Invoice{}}, nil
}

func (f *fakeInvoiceService) GetByID(ctx context.Context, id string) (invoicedomain.InvoiceDetail, error) {
	if f.getErr != nil {
		return invoicedomain.InvoiceDetail{}, f.getErr
	}
	return invoicedomain.InvoiceDetail{}, nil
}

func (f *fakeInvoiceService) MarkPaid(ctx context.Context, id string, req invoicedomain.MarkPaidRequest) (invoicedomain.Invoice, error) {
	f.lastOwner, _ = ownercontext.OwnerIDFromContext(ctx)
	f.lastMarkID = id
	f.lastMarkPaid = req
	if f.markPaidErr != nil {
		return invoicedomain.Invoice{}, f.markPaidErr
	}
	return invoicedomain.Invoice{ID: snowflake.ID(42), Status: invoicedomain.InvoiceStatusPaid}, nil
}

type fakeCustomerService struct {
	lastList customerdomain.ListCustomerRequest
}

func (f *fakeCustomerService) Create(ctx context.Context, req customerdomain.CreateCustomerRequest) (customerdomain.Customer, error) {
	return customerdomain.Customer{ID: snowflake.ID(7), Name: req.Name}, nil
}

func (f *fakeCustomerService) List(ctx context.Context, req customerdomain.ListCustomerRequest) (customerdomain.ListCustomerResponse, error) {
	f.lastList = req
	return customerdomain.ListCustomerResponse{}, nil
}

func (f *fakeCustomerService) GetByID(ctx context.Context, id string) (customerdomain.Customer, error) {
	return customerdomain.Customer{}, customerdomain.ErrNotFound
}

type fakeProfileService struct{}

func (fakeProfileService) Upsert(ctx context.Context, req profiledomain.UpsertProfileRequest) (profiledomain.Profile, error) {
	return profiledomain.Profile{BusinessName: req.BusinessName}, nil
}

func (fakeProfileService) Get(ctx context.Context) (profiledomain.Profile, error) {
	return profiledomain.Profile{}, profiledomain.ErrNotFound
}

type fakeTaxService struct{}

func (fakeTaxService) Upsert(ctx context.Context, req taxdomain.UpsertVatSettingsRequest) (taxdomain.VatSetting, error) {
	return taxdomain.VatSetting{}, taxdomain.ErrProfileRequired
}

func (fakeTaxService) Get(ctx context.Context) (taxdomain.VatSetting, error) {
	return taxdomain.VatSetting{IsVatRegistered: true, VatRate: 7.5}, nil
}

type fakeSummaryService struct {
	lastOwner string
	lastReq   summarydomain.Request
}

func (f *fakeSummaryService) Summarize(ctx context.Context, ownerID string, req summarydomain.Request) (summarydomain.Result, error) {
	f.lastOwner = ownerID
	f.lastReq = req
	return summarydomain.Result{GroupBy: req.GroupBy}, nil
}

type testServer struct {
	engine   *gin.Engine
	invoices *fakeInvoiceService
	customer *fakeCustomerService
	summary  *fakeSummaryService
}

func newTestServer(t *testing.T, db *gorm.DB) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		engine:   NewEngine(observability.Config{}, nil, "https://app.invoicer.test"),
		invoices: &fakeInvoiceService{},
		customer: &fakeCustomerService{},
		summary:  &fakeSummaryService{},
	}
	srv := &Server{
		engine:      ts.engine,
		db:          db,
		log:         zap.NewNop(),
		verifier:    identity.NewLocal(),
		invoiceSvc:  ts.invoices,
		customerSvc: ts.customer,
		profileSvc:  fakeProfileService{},
		taxSvc:      fakeTaxService{},
		summarySvc:  ts.summary,
	}
	srv.RegisterRoutes()
	return ts
}

func (ts *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body == "" {
		reader = &bytes.Buffer{}
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	ts.engine.ServeHTTP(resp, req)
	return resp
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return out
}

func TestAuthRequired_RejectsMissingAndMalformedTokens(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodGet, "/invoices", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	body := decodeEnvelope(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unauthorized", body["message"])

	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateInvoice_ReturnsCreatedEnvelopeWithOwner(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodPost, "/invoices", "owner-1", `{
		"customer": {"name": "Acme"},
		"currency": "NGN",
		"tax_reason": "export_zero",
		"items": [{"name": "Design", "quantity": 2, "unit_price": 100}]
	}`)

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	body := decodeEnvelope(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Invoice created", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "INV-2025-000001", data["number"])

	assert.Equal(t, "owner-1", ts.invoices.lastOwner)
	assert.Equal(t, taxdomain.TaxReasonExportZero, ts.invoices.lastCreate.TaxReason)
	require.Len(t, ts.invoices.lastCreate.Items, 1)
	assert.Equal(t, 2.0, ts.invoices.lastCreate.Items[0].Quantity)
}

func TestCreateInvoice_BindingErrorsArePerField(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodPost, "/invoices", "owner-1", `{
		"currency": "NG",
		"items": [{"name": "Design", "quantity": 0, "unit_price": 100}]
	}`)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Zero(t, ts.invoices.createCalls)

	var body struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Errors  []ValidationError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Validation failed", body.Message)

	fields := map[string]string{}
	for _, e := range body.Errors {
		fields[e.Field] = e.Code
	}
	assert.Equal(t, "len", fields["currency"])
	assert.Equal(t, "gt", fields["items[0].quantity"])
}

func TestCreateInvoice_MalformedJSON(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodPost, "/invoices", "owner-1", `{"currency": 12}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	body := decodeEnvelope(t, resp)
	errs := body["errors"].([]any)
	require.NotEmpty(t, errs)
	assert.Equal(t, "invalid_type", errs[0].(map[string]any)["code"])
}

func TestCreateInvoice_DomainErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "missing vat", err: taxdomain.ErrMissingVatSettings, status: http.StatusBadRequest, message: "VAT settings are not configured. Register for VAT before issuing invoices."},
		{name: "conflict", err: invoicedomain.ErrConflict, status: http.StatusConflict, message: "Resource already exists"},
		{name: "customer not found", err: invoicedomain.ErrNotFound, status: http.StatusNotFound, message: "Resource not found"},
		{name: "customer required", err: invoicedomain.ErrCustomerRequired, status: http.StatusBadRequest, message: "Validation failed"},
		{name: "wrapped unexpected", err: fmt.Errorf("insert: %w", assert.AnError), status: http.StatusInternalServerError, message: "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			ts.invoices.createErr = tc.err

			resp := ts.do(http.MethodPost, "/invoices", "owner-1", `{
				"customer_id": "1",
				"currency": "NGN",
				"items": [{"name": "Design", "quantity": 1, "unit_price": 10}]
			}`)
			assert.Equal(t, tc.status, resp.Code)
			body := decodeEnvelope(t, resp)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.message, body["message"])
		})
	}
}

func TestMarkInvoicePaid_EmptyBodyAndPaidAt(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodPatch, "/invoices/42/paid", "owner-1", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "42", ts.invoices.lastMarkID)
	assert.Nil(t, ts.invoices.lastMarkPaid.PaidAt)
	assert.Equal(t, "Invoice marked as paid", decodeEnvelope(t, resp)["message"])

	resp = ts.do(http.MethodPatch, "/invoices/42/paid", "owner-1", `{"paidAt": "2025-03-01T10:00:00Z"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, ts.invoices.lastMarkPaid.PaidAt)
	assert.True(t, ts.invoices.lastMarkPaid.PaidAt.Equal(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))

	resp = ts.do(http.MethodPatch, "/invoices/42/paid", "owner-1", `{"paidAt": "yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestMarkInvoicePaid_MissingVatSettings(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.invoices.markPaidErr = fmt.Errorf("resolve vat: %w", taxdomain.ErrMissingVatSettings)

	resp := ts.do(http.MethodPatch, "/invoices/42/paid", "owner-1", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListInvoices_ParsesPagingAndStatus(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodGet, "/invoices?page=2&limit=5&status=paid", "owner-1", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 2, ts.invoices.lastList.Page.Page)
	assert.Equal(t, 5, ts.invoices.lastList.Page.Limit)
	require.NotNil(t, ts.invoices.lastList.Status)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, *ts.invoices.lastList.Status)

	resp = ts.do(http.MethodGet, "/invoices?limit=500", "owner-1", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCustomerRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodPost, "/customers", "owner-1", `{"name": "Acme", "email": "billing@acme.test"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "Customer created", decodeEnvelope(t, resp)["message"])

	resp = ts.do(http.MethodPost, "/customers", "owner-1", `{"name": "Acme", "email": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.do(http.MethodGet, "/customers?name=ac", "owner-1", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ac", ts.customer.lastList.Name)

	resp = ts.do(http.MethodGet, "/customers/99", "owner-1", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestProfileRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodGet, "/profile", "owner-1", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.do(http.MethodPost, "/profile", "owner-1", `{"business_name": "Acme", "country_code": "NG", "currency": "NGN"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Profile saved", decodeEnvelope(t, resp)["message"])

	resp = ts.do(http.MethodGet, "/profile/vat", "owner-1", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.do(http.MethodPost, "/profile/vat", "owner-1", `{"is_vat_registered": true, "vat_rate": 7.5}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Create a business profile first.", decodeEnvelope(t, resp)["message"])
}

func TestGetSummary_ParsesQuery(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodGet, "/summary?from=2025-01-01&to=2025-01-31T23:00:00Z&groupBy=DAY&currency=ngn", "owner-1", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "owner-1", ts.summary.lastOwner)
	assert.Equal(t, summarydomain.GroupByDay, ts.summary.lastReq.GroupBy)
	assert.Equal(t, "ngn", ts.summary.lastReq.Currency)
	require.NotNil(t, ts.summary.lastReq.From)
	assert.True(t, ts.summary.lastReq.From.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	resp = ts.do(http.MethodGet, "/summary?from=last-week", "owner-1", "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	errs := decodeEnvelope(t, resp)["errors"].([]any)
	assert.Equal(t, "from", errs[0].(map[string]any)["field"])
}

func TestHealth(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	ts := newTestServer(t, db)

	resp := ts.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	data := decodeEnvelope(t, resp)["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodOptions, "/invoices", "", "")
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "https://app.invoicer.test", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestMapError_ClassifiesForLogging(t *testing.T) {
	typ, code := classifyErrorForLog(invoicedomain.ErrInvalidCurrency)
	assert.Equal(t, "validation_error", typ)
	assert.Equal(t, "invalid_currency", code)

	typ, code = classifyErrorForLog(identity.ErrInvalidToken)
	assert.Equal(t, "unauthorized", typ)
	assert.Equal(t, "unauthorized", code)

	typ, _ = classifyErrorForLog(nil)
	assert.Empty(t, typ)
}
