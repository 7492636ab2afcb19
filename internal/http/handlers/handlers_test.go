package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"fundhub/internal/campaign"
	"fundhub/internal/chain"
	"fundhub/internal/domain"
	"fundhub/internal/middleware"
)

type fakeReader struct {
	campaigns map[uint64]*chain.Campaign
	active    []uint64
	statsErr  error
	paused    bool
	owner     string
}

func (f *fakeReader) Campaign(ctx context.Context, id uint64) (*chain.Campaign, error) {
	c, ok := f.campaigns[id]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return c, nil
}

func (f *fakeReader) Contribution(ctx context.Context, id uint64, account string) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeReader) UserCampaignIDs(ctx context.Context, account string) ([]uint64, error) {
	return nil, nil
}

func (f *fakeReader) UserContributionIDs(ctx context.Context, account string) ([]uint64, error) {
	return nil, nil
}

func (f *fakeReader) ActiveCampaignIDs(ctx context.Context, offset, limit uint64) ([]uint64, error) {
	return f.active, nil
}

func (f *fakeReader) CampaignContributions(ctx context.Context, id uint64) ([]chain.ContributionEvent, error) {
	return nil, nil
}

func (f *fakeReader) ContractStats(ctx context.Context) (*chain.ContractStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &chain.ContractStats{
		TotalCampaigns:  big.NewInt(2),
		TotalFees:       big.NewInt(100),
		ContractBalance: big.NewInt(500),
	}, nil
}

func (f *fakeReader) Paused(ctx context.Context) (bool, error) { return f.paused, nil }

func (f *fakeReader) Owner(ctx context.Context) (string, error) { return f.owner, nil }

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	kyc     map[string][3]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]*domain.User{},
		byID:    map[string]*domain.User{},
		kyc:     map[string][3]string{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) UpdateKYC(ctx context.Context, userID, idType, idImage, selfie string) error {
	f.kyc[userID] = [3]string{idType, idImage, selfie}
	return nil
}

func (f *fakeUserRepo) SetRole(ctx context.Context, userID string, role domain.UserRole) error {
	if u, ok := f.byID[userID]; ok {
		u.Role = role
		return nil
	}
	return domain.ErrNotFound
}

type fakeWalletRepo struct {
	balance int64
}

func (f *fakeWalletRepo) Get(ctx context.Context, userID string) (*domain.Wallet, error) {
	return &domain.Wallet{UserID: userID, Balance: f.balance}, nil
}

func (f *fakeWalletRepo) Credit(ctx context.Context, userID string, amount int64, description string) (int64, error) {
	f.balance += amount
	return f.balance, nil
}

func (f *fakeWalletRepo) Debit(ctx context.Context, userID string, amount int64, description string) (int64, error) {
	if amount > f.balance {
		return 0, domain.ErrInsufficientBalance
	}
	f.balance -= amount
	return f.balance, nil
}

func (f *fakeWalletRepo) Transactions(ctx context.Context, userID string, limit int) ([]domain.WalletTransaction, error) {
	return nil, nil
}

type fakeMirrorRepo struct {
	records  []domain.MirrorCampaign
	approved map[string]bool
}

func (f *fakeMirrorRepo) Create(ctx context.Context, c *domain.MirrorCampaign) error {
	f.records = append(f.records, *c)
	return nil
}

func (f *fakeMirrorRepo) List(ctx context.Context, onlyApproved bool) ([]domain.MirrorCampaign, error) {
	if !onlyApproved {
		return f.records, nil
	}
	var out []domain.MirrorCampaign
	for _, r := range f.records {
		if r.Approved {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeMirrorRepo) GetByID(ctx context.Context, id string) (*domain.MirrorCampaign, error) {
	for i := range f.records {
		if f.records[i].ID == id {
			return &f.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeMirrorRepo) Approve(ctx context.Context, id string) error {
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Approved = true
			if f.approved == nil {
				f.approved = map[string]bool{}
			}
			f.approved[id] = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeMirrorRepo) LinkChainID(ctx context.Context, id string, chainID int64) error {
	return nil
}

func addr(s string) common.Address { return common.HexToAddress(s) }

func testCampaign(id int64, creator string) *chain.Campaign {
	return &chain.Campaign{
		ID:                big.NewInt(id),
		Creator:           addr(creator),
		Title:             "Test Campaign",
		TargetAmount:      big.NewInt(1e18),
		RaisedAmount:      big.NewInt(5e17),
		Deadline:          big.NewInt(time.Now().Add(48 * time.Hour).Unix()),
		Active:            true,
		CreatedAt:         big.NewInt(time.Now().Unix()),
		ContributorsCount: big.NewInt(3),
	}
}

func newTestApp(t *testing.T, reader chain.Reader) (*App, func()) {
	t.Helper()
	agg := campaign.NewAggregator(reader, 2, zerolog.Nop())
	app := &App{
		Logger:     zerolog.Nop(),
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		Reader:     reader,
		Aggregator: agg,
		Users:      newFakeUserRepo(),
		Wallets:    &fakeWalletRepo{},
		Mirror:     &fakeMirrorRepo{},
	}
	return app, agg.Close
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func authedRequest(method, target, userID, role string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(middleware.ContextWithUser(req.Context(), userID, role))
}

func TestRegisterAndDuplicateEmail(t *testing.T) {
	app, done := newTestApp(t, &fakeReader{})
	defer done()

	payload := `{"name":"Ada","email":"ada@example.com","password":"supersecret"}`

	rec := httptest.NewRecorder()
	app.Register(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(payload)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	if tok, ok := decodeBody(t, rec)["token"].(string); !ok || tok == "" {
		t.Error("expected a token in the response")
	}

	rec = httptest.NewRecorder()
	app.Register(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(payload)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app, done := newTestApp(t, &fakeReader{})
	defer done()

	hash, _ := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.MinCost)
	users := app.Users.(*fakeUserRepo)
	users.Create(context.Background(), &domain.User{
		ID: "u1", Email: "ada@example.com", PasswordHash: string(hash), Role: domain.UserRoleUser,
	})

	rec := httptest.NewRecorder()
	app.Login(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "invalid_credentials" {
		t.Errorf("error code = %v, want invalid_credentials", errObj["code"])
	}
}

func TestWalletDebitInsufficientBalance(t *testing.T) {
	app, done := newTestApp(t, &fakeReader{})
	defer done()
	app.Wallets.(*fakeWalletRepo).balance = 50

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/v1/wallet/debit", "u1", "user",
		bytes.NewBufferString(`{"amount":100,"description":"withdrawal"}`))
	app.WalletDebit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	errObj := decodeBody(t, rec)["error"].(map[string]any)
	if errObj["code"] != "insufficient_balance" {
		t.Errorf("error code = %v, want insufficient_balance", errObj["code"])
	}
}

func TestWalletCreditThenDebit(t *testing.T) {
	app, done := newTestApp(t, &fakeReader{})
	defer done()

	rec := httptest.NewRecorder()
	app.WalletCredit(rec, authedRequest(http.MethodPost, "/v1/wallet/credit", "u1", "user",
		bytes.NewBufferString(`{"amount":200}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("credit status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	app.WalletDebit(rec, authedRequest(http.MethodPost, "/v1/wallet/debit", "u1", "user",
		bytes.NewBufferString(`{"amount":150}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("debit status = %d, want 200", rec.Code)
	}
	if got := decodeBody(t, rec)["balance"].(float64); got != 50 {
		t.Errorf("balance = %v, want 50", got)
	}
}

func TestCampaignsList(t *testing.T) {
	reader := &fakeReader{
		campaigns: map[uint64]*chain.Campaign{
			1: testCampaign(1, "0x1111111111111111111111111111111111111111"),
			2: testCampaign(2, "0x2222222222222222222222222222222222222222"),
		},
		active: []uint64{1, 2},
	}
	app, done := newTestApp(t, reader)
	defer done()

	rec := httptest.NewRecorder()
	app.CampaignsList(rec, httptest.NewRequest(http.MethodGet, "/v1/campaigns", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	items := body["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if body["seq"].(float64) < 1 {
		t.Error("expected a positive freshness sequence")
	}
}

func TestCampaignGetNotFound(t *testing.T) {
	app, done := newTestApp(t, &fakeReader{})
	defer done()

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns/42", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "42")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	app.CampaignGet(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAdminContractPartialFailure(t *testing.T) {
	reader := &fakeReader{
		statsErr: errors.New("rpc timeout"),
		paused:   true,
		owner:    "0x1111111111111111111111111111111111111111",
	}
	app, done := newTestApp(t, reader)
	defer done()

	rec := httptest.NewRecorder()
	app.AdminContract(rec, authedRequest(http.MethodGet, "/v1/admin/contract", "u1", "admin", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["stats"] != nil {
		t.Errorf("stats = %v, want null on failure", body["stats"])
	}
	if body["paused"] != true {
		t.Errorf("paused = %v, want true", body["paused"])
	}
}

func TestMirrorCreateValidation(t *testing.T) {
	app, done := newTestApp(t, &fakeReader{})
	defer done()

	rec := httptest.NewRecorder()
	app.MirrorCreate(rec, authedRequest(http.MethodPost, "/v1/mirror/campaigns", "u1", "user",
		bytes.NewBufferString(`{"title":"","target_amount":"1000"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	app.MirrorCreate(rec, authedRequest(http.MethodPost, "/v1/mirror/campaigns", "u1", "user",
		bytes.NewBufferString(`{"title":"Clean Water","target_amount":"1000","duration_days":30,"creator_wallet":"0x3333333333333333333333333333333333333333"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	if got := decodeBody(t, rec)["approved"]; got != false {
		t.Errorf("approved = %v, new records must start unapproved", got)
	}
}

func TestMirrorListOnlyApproved(t *testing.T) {
	app, done := newTestApp(t, &fakeReader{})
	defer done()
	mirror := app.Mirror.(*fakeMirrorRepo)
	mirror.records = []domain.MirrorCampaign{
		{ID: "a", Title: "Approved", Approved: true},
		{ID: "b", Title: "Pending"},
	}

	rec := httptest.NewRecorder()
	app.MirrorList(rec, httptest.NewRequest(http.MethodGet, "/v1/mirror/campaigns", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	items := decodeBody(t, rec)["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
}
