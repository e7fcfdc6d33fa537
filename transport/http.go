package transport

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	holdapp "github.com/shopcore/inventory-core/application/hold"
	ledgerapp "github.com/shopcore/inventory-core/application/stockledger"
	"github.com/shopcore/inventory-core/constant"
	"github.com/shopcore/inventory-core/model"
	"github.com/shopcore/inventory-core/utils/errors"
	validatorx "github.com/shopcore/inventory-core/utils/validator"
)

// RestHandler exposes the core to its internal collaborators (checkout
// orchestrator, warehouse receiving, correction workflow). This surface
// is plumbing, not a public API: auth is a static internal key and the
// contract is exactly the application layer's.
type RestHandler struct {
	HoldApp   holdapp.HoldApp
	LedgerApp ledgerapp.StockLedgerApp
}

func NewTransport(holdApp holdapp.HoldApp, ledgerApp ledgerapp.StockLedgerApp, internalAPIKey string) http.Handler {
	router := mux.NewRouter()

	rh := &RestHandler{
		HoldApp:   holdApp,
		LedgerApp: ledgerApp,
	}

	internal := router.PathPrefix("/internal").Subrouter()
	internal.HandleFunc("/shops/{shop}/holds", rh.CreateHold).Methods(http.MethodPost)
	internal.HandleFunc("/shops/{shop}/holds/{id}/commit", rh.CommitHold).Methods(http.MethodPost)
	internal.HandleFunc("/shops/{shop}/holds/{id}/release", rh.ReleaseHold).Methods(http.MethodPost)
	internal.HandleFunc("/shops/{shop}/stock/inflows", rh.ReceiveStockInflow).Methods(http.MethodPost)
	internal.HandleFunc("/shops/{shop}/stock/adjustments", rh.ApplyStockAdjustment).Methods(http.MethodPost)
	internal.HandleFunc("/shops/{shop}/stock/ledger", rh.ListLedgerEvents).Methods(http.MethodGet)
	internal.HandleFunc("/shops/{shop}/inventory", rh.ListInventory).Methods(http.MethodGet)

	router.Use(LoggingMiddleware())
	internal.Use(InternalMiddleware(internalAPIKey))

	return router
}

func (s *RestHandler) CreateHold(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shopID := mux.Vars(r)["shop"]

	var req model.CreateHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.HoldApp.CreateHold(ctx, shopID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

func (s *RestHandler) CommitHold(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	if err := s.HoldApp.CommitHold(ctx, vars["shop"], vars["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, struct {
		HoldID string `json:"hold_id"`
		Status string `json:"status"`
	}{
		HoldID: vars["id"],
		Status: string(constant.HoldStatusCommitted),
	})
}

func (s *RestHandler) ReleaseHold(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	res, err := s.HoldApp.ReleaseHold(ctx, vars["shop"], vars["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

func (s *RestHandler) ReceiveStockInflow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shopID := mux.Vars(r)["shop"]

	var req model.StockInflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.LedgerApp.ReceiveStockInflow(ctx, shopID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

func (s *RestHandler) ApplyStockAdjustment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shopID := mux.Vars(r)["shop"]

	var req model.StockAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.LedgerApp.ApplyStockAdjustment(ctx, shopID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

func (s *RestHandler) ListLedgerEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shopID := mux.Vars(r)["shop"]
	q := r.URL.Query()

	req := &model.ListLedgerEventsRequest{
		VariantKey: q.Get("variant_key"),
		Kind:       constant.LedgerEventKind(q.Get("kind")),
	}
	req.Page, _ = strconv.Atoi(q.Get("page"))
	req.PerPage, _ = strconv.Atoi(q.Get("per_page"))

	res, err := s.LedgerApp.ListEvents(ctx, shopID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

func (s *RestHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shopID := mux.Vars(r)["shop"]
	q := r.URL.Query()

	req := &model.ListInventoryRequest{
		ProductID: q.Get("product_id"),
	}
	req.Page, _ = strconv.Atoi(q.Get("page"))
	req.PerPage, _ = strconv.Atoi(q.Get("per_page"))

	res, err := s.LedgerApp.ListInventory(ctx, shopID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

type successEnvelope struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type errorEnvelope struct {
	Code              string                    `json:"code"`
	Message           string                    `json:"message"`
	Insufficient      []errors.InsufficientLine `json:"insufficient,omitempty"`
	ProductMismatches []errors.ProductMismatch  `json:"product_mismatches,omitempty"`
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(successEnvelope{
		Code:    constant.ErrorTypeCode[constant.Successful],
		Message: constant.ErrorTypeMessage[constant.Successful],
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, err error) {
	env := errorEnvelope{
		Code:    constant.ErrorTypeCode[constant.ErrInternal],
		Message: constant.ErrorTypeMessage[constant.ErrInternal],
	}
	status := http.StatusInternalServerError

	var cerr errors.CustomError
	if stderrors.As(err, &cerr) {
		env.Code = cerr.ErrorCode()
		env.Message = cerr.Error()
		env.Insufficient = cerr.Insufficient
		env.ProductMismatches = cerr.ProductMismatches
		status = cerr.ErrorHTTPCode()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
