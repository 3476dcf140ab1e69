package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
	"github.com/vladislavdragonenkov/catalog-orders/internal/service/auth"
	"github.com/vladislavdragonenkov/catalog-orders/internal/service/catalog"
	"github.com/vladislavdragonenkov/catalog-orders/internal/service/order"
	"github.com/vladislavdragonenkov/catalog-orders/internal/storage/memory"
	transport "github.com/vladislavdragonenkov/catalog-orders/internal/transport/http"
)

const (
	buyerToken   = "tok-buyer"
	visitorToken = "tok-visitor"
)

// OrderLifecycleTestSuite прогоняет полный жизненный цикл заказа через HTTP API.
type OrderLifecycleTestSuite struct {
	suite.Suite
	server *httptest.Server
	outbox domain.OutboxRepository
}

func (suite *OrderLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	products := memory.NewProductRepository()
	companies := memory.NewCompanyRepository()
	orders := memory.NewOrderRepository(products)
	suite.outbox = memory.NewOutboxRepository()

	svc := order.NewService(
		orders,
		order.NewReconciler(catalog.NewLookup(products), logger, nil),
		suite.outbox,
		logger,
		nil,
	)

	handler := transport.NewRouter(transport.RouterConfig{
		Orders:    transport.NewOrderHandler(svc, logger),
		Companies: transport.NewCompanyHandler(companies, logger),
		Products:  transport.NewProductHandler(products, companies, logger),
		Verifier: auth.NewStaticVerifier(map[string]string{
			buyerToken:   "buyer-1",
			visitorToken: "visitor-1",
		}),
		Logger: logger,
	})

	suite.server = httptest.NewServer(handler)
}

func (suite *OrderLifecycleTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *OrderLifecycleTestSuite) TestSuccessfulOrderLifecycle() {
	// 1. Заводим компанию и товар через API
	companyID := suite.createCompany("Box Makers")
	productID := suite.createProduct(companyID, "Packing tape", "9.99", 24)

	// 2. Оформляем заказ с корректной итоговой суммой
	created := suite.submitOrder(buyerToken, productID, 2, "19.98", http.StatusCreated)
	orderBody := created["order"].(map[string]any)
	orderID := orderBody["id"].(string)
	require.Equal(suite.T(), "buyer-1", orderBody["user"])
	require.Equal(suite.T(), "pending", orderBody["status"])
	require.Equal(suite.T(), json.Number("19.98"), orderBody["total"])

	// 3. Читаем заказ обратно
	got := suite.doJSON(http.MethodGet, "/api/orders/"+orderID, buyerToken, nil, http.StatusOK)
	item := got["data"].(map[string]any)["items"].([]any)[0].(map[string]any)
	require.Equal(suite.T(), json.Number("9.99"), item["price"])
	require.Equal(suite.T(), productID, item["product"].(map[string]any)["id"])

	// 4. Заказ виден в списке владельца с пагинацией
	list := suite.doJSON(http.MethodGet, "/api/orders?page=1&limit=10", buyerToken, nil, http.StatusOK)
	require.Len(suite.T(), list["data"].([]any), 1)
	pagination := list["pagination"].(map[string]any)
	require.Equal(suite.T(), json.Number("1"), pagination["total"])

	// 5. Событие заказа попало в outbox
	pending, err := suite.outbox.PullPending(10)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), pending, 1)
	require.Equal(suite.T(), "order.created", pending[0].EventType)
	require.Equal(suite.T(), orderID, pending[0].AggregateID)
}

func (suite *OrderLifecycleTestSuite) TestTotalMismatchLeavesNoTrace() {
	companyID := suite.createCompany("Box Makers")
	productID := suite.createProduct(companyID, "Packing tape", "9.99", 24)

	body := suite.submitOrder(buyerToken, productID, 2, "25.00", http.StatusBadRequest)
	require.Equal(suite.T(), false, body["success"])
	require.Equal(suite.T(), "Total amount mismatch", body["error"])
	require.Equal(suite.T(), "19.98 vs 25.00", body["details"])

	// Заказ не сохранён и событие не поставлено в очередь
	list := suite.doJSON(http.MethodGet, "/api/orders", buyerToken, nil, http.StatusOK)
	require.Empty(suite.T(), list["data"])

	stats, err := suite.outbox.Stats()
	require.NoError(suite.T(), err)
	require.Zero(suite.T(), stats.PendingCount)
}

func (suite *OrderLifecycleTestSuite) TestOwnershipIsolation() {
	companyID := suite.createCompany("Box Makers")
	productID := suite.createProduct(companyID, "Packing tape", "9.99", 24)

	created := suite.submitOrder(buyerToken, productID, 1, "9.99", http.StatusCreated)
	orderID := created["order"].(map[string]any)["id"].(string)

	// Чужой заказ недоступен, но его существование не скрывается
	body := suite.doJSON(http.MethodGet, "/api/orders/"+orderID, visitorToken, nil, http.StatusForbidden)
	require.Equal(suite.T(), false, body["success"])

	list := suite.doJSON(http.MethodGet, "/api/orders", visitorToken, nil, http.StatusOK)
	require.Empty(suite.T(), list["data"])
}

func (suite *OrderLifecycleTestSuite) TestCatalogPriceChangeKeepsCapturedPrice() {
	companyID := suite.createCompany("Box Makers")
	productID := suite.createProduct(companyID, "Packing tape", "9.99", 24)

	created := suite.submitOrder(buyerToken, productID, 1, "9.99", http.StatusCreated)
	orderID := created["order"].(map[string]any)["id"].(string)

	// Меняем цену в каталоге после оформления заказа
	suite.doJSON(http.MethodPut, "/api/products/"+productID, buyerToken, map[string]any{
		"name":        "Packing tape",
		"price":       json.Number("14.99"),
		"itemsPerBox": 24,
	}, http.StatusOK)

	got := suite.doJSON(http.MethodGet, "/api/orders/"+orderID, buyerToken, nil, http.StatusOK)
	item := got["data"].(map[string]any)["items"].([]any)[0].(map[string]any)
	require.Equal(suite.T(), json.Number("9.99"), item["price"], "зафиксированная цена не должна меняться")
	require.Equal(suite.T(), json.Number("14.99"), item["product"].(map[string]any)["price"])
}

// Вспомогательные методы

func (suite *OrderLifecycleTestSuite) createCompany(name string) string {
	body := suite.doJSON(http.MethodPost, "/api/companies", buyerToken, map[string]any{
		"name": name,
	}, http.StatusCreated)
	return body["data"].(map[string]any)["id"].(string)
}

func (suite *OrderLifecycleTestSuite) createProduct(companyID, name, price string, itemsPerBox int) string {
	body := suite.doJSON(http.MethodPost, "/api/products", buyerToken, map[string]any{
		"name":        name,
		"price":       json.Number(price),
		"itemsPerBox": itemsPerBox,
		"company":     companyID,
	}, http.StatusCreated)
	return body["data"].(map[string]any)["id"].(string)
}

func (suite *OrderLifecycleTestSuite) submitOrder(token, productID string, quantity int, total string, wantStatus int) map[string]any {
	return suite.doJSON(http.MethodPost, "/api/orders", token, map[string]any{
		"items": []map[string]any{
			{"product": productID, "quantity": quantity},
		},
		"total":           json.Number(total),
		"shippingAddress": "10 Dock Road",
		"paymentMethod":   "card",
	}, wantStatus)
}

func (suite *OrderLifecycleTestSuite) doJSON(method, path, token string, payload any, wantStatus int) map[string]any {
	var reader *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, suite.server.URL+path, reader)
	require.NoError(suite.T(), err)
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := suite.server.Client().Do(req)
	require.NoError(suite.T(), err)
	defer resp.Body.Close()

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var body map[string]any
	require.NoError(suite.T(), decoder.Decode(&body))
	require.Equal(suite.T(), wantStatus, resp.StatusCode, fmt.Sprintf("%s %s: %v", method, path, body))
	return body
}

func TestOrderLifecycle(t *testing.T) {
	suite.Run(t, new(OrderLifecycleTestSuite))
}
