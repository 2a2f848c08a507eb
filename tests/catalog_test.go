package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/Leopold1975/travel_catalog/internal/pkg/config"
	"github.com/Leopold1975/travel_catalog/internal/travels/api/server"
	"github.com/Leopold1975/travel_catalog/internal/travels/app"
	ur "github.com/Leopold1975/travel_catalog/internal/travels/repository/userrepo/postgres"
	"github.com/Leopold1975/travel_catalog/internal/travels/services/authservice"
	"github.com/Leopold1975/travel_catalog/internal/travels/services/catalogservice"
	"github.com/stretchr/testify/suite"
)

type CatalogSuite struct {
	suite.Suite
	app     app.CatalogApp
	cancel  context.CancelFunc
	baseURL string
	client  *http.Client
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

var (
	adminEmail     = "admin@example.com"
	adminPassword  = "admin-password"
	editorEmail    = "editor@example.com"
	editorPassword = "editor-password"
)

func (cs *CatalogSuite) SetupSuite() {
	cmd := exec.Command("docker", "compose", "-f", "./test-compose.yaml", "up", "--build")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cs.T().Fatalf("cannot start docker compose error: %v", err)
	}

	cfg, err := config.New("config_test.yaml")
	if err != nil {
		cs.T().Fatalf("cannot get config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	a, err := app.New(ctx, cfg)
	if err != nil {
		cancel()
		cs.T().Fatalf("cannot get app error: %v", err)
	}

	userRepo, err := ur.New(ctx, cfg.PostgresDB)
	if err != nil {
		cancel()
		cs.T().Fatalf("cannot get user repo error: %v", err)
	}

	authService := authservice.New(userRepo, cfg.Auth)

	for _, u := range []authservice.CreateUserRequest{
		{Name: "Admin", Email: adminEmail, Password: adminPassword, Role: "admin"},
		{Name: "Editor", Email: editorEmail, Password: editorPassword, Role: "editor"},
	} {
		if _, err := authService.CreateUser(ctx, u); err != nil {
			cancel()
			cs.T().Fatalf("cannot create user error: %v", err)
		}
	}

	cs.app = a
	cs.cancel = cancel
	cs.baseURL = "http://" + cfg.Server.Addr + "/v1"
	cs.client = &http.Client{Timeout: time.Second * 5} //nolint:exhaustruct

	go a.Run(ctx)
	time.Sleep(time.Second * 2) // Время для запуска сервера и баз данных.
}

func (cs *CatalogSuite) TearDownSuite() {
	cs.cancel()

	cmd := exec.Command("docker", "compose", "-f", "./test-compose.yaml", "down", "-v")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		cs.T().Fatalf("cannot down docker containers error: %v", err)
	}
}

func (cs *CatalogSuite) doJSON(method, path, token string, body interface{}) *http.Response {
	var buf bytes.Buffer

	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		cs.Require().NoError(err)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, cs.baseURL+path, &buf)
	cs.Require().NoError(err)

	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := cs.client.Do(req)
	cs.Require().NoError(err)

	return resp
}

func (cs *CatalogSuite) login(email, password string) string {
	resp := cs.doJSON(http.MethodPost, "/auth/login", "", authservice.LoginRequest{
		Email:    email,
		Password: password,
	})
	defer resp.Body.Close()

	cs.Require().Equal(http.StatusOK, resp.StatusCode)

	var tokenResp server.AuthUserResponse

	err := json.NewDecoder(resp.Body).Decode(&tokenResp)
	cs.Require().NoError(err)
	cs.Require().NotEmpty(tokenResp.Token)

	return tokenResp.Token
}

func (cs *CatalogSuite) TestCatalogScenario() {
	adminToken := cs.login(adminEmail, adminPassword)
	editorToken := cs.login(editorEmail, editorPassword)
	cs.Require().NotEqual(adminToken, editorToken)

	// Аноним не может создать путешествие
	resp := cs.doJSON(http.MethodPost, "/admin/travels", "", catalogservice.CreateTravelRequest{
		Name:         "Anonymous travel",
		Description:  "should fail",
		NumberOfDays: intPtr(1),
		Public:       true,
	})
	cs.Require().Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Редактор не может создать путешествие
	resp = cs.doJSON(http.MethodPost, "/admin/travels", editorToken, catalogservice.CreateTravelRequest{
		Name:         "Editor travel",
		Description:  "should fail",
		NumberOfDays: intPtr(1),
		Public:       true,
	})
	cs.Require().Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Админ создает публичное и скрытое путешествия
	resp = cs.doJSON(http.MethodPost, "/admin/travels", adminToken, catalogservice.CreateTravelRequest{
		Name:         "Example travel name",
		Description:  "Example description for example travel",
		NumberOfDays: intPtr(5),
		Public:       true,
	})
	cs.Require().Equal(http.StatusCreated, resp.StatusCode)

	var travelResp struct {
		Data server.TravelResponse `json:"data"`
	}

	err := json.NewDecoder(resp.Body).Decode(&travelResp)
	resp.Body.Close()
	cs.Require().NoError(err)
	cs.Require().Equal("example-travel-name", travelResp.Data.Slug)

	resp = cs.doJSON(http.MethodPost, "/admin/travels", adminToken, catalogservice.CreateTravelRequest{
		Name:         "Hidden travel",
		Description:  "not public",
		NumberOfDays: intPtr(2),
		Public:       false,
	})
	cs.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Публичный список показывает только публичные путешествия
	resp = cs.doJSON(http.MethodGet, "/travels", "", nil)
	cs.Require().Equal(http.StatusOK, resp.StatusCode)

	var travelsList struct {
		Data []server.TravelResponse `json:"data"`
		Meta server.Meta             `json:"meta"`
	}

	err = json.NewDecoder(resp.Body).Decode(&travelsList)
	resp.Body.Close()
	cs.Require().NoError(err)
	cs.Require().Equal(1, travelsList.Meta.Total)
	cs.Require().Equal("example-travel-name", travelsList.Data[0].Slug)

	// Админ создает 16 туров
	for i := 0; i < 16; i++ {
		resp = cs.doJSON(http.MethodPost, "/admin/travels/example-travel-name/tours", adminToken,
			catalogservice.CreateTourRequest{
				Name:         fmt.Sprintf("Tour %d", i+1),
				StartingDate: fmt.Sprintf("2024-07-%02d", i+1),
				EndingDate:   fmt.Sprintf("2024-07-%02d", i+2),
				Price:        floatPtr(float64(100 + i)),
			})
		cs.Require().Equal(http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// Первая страница полная, вторая содержит остаток
	resp = cs.doJSON(http.MethodGet, "/travels/example-travel-name/tours", "", nil)
	cs.Require().Equal(http.StatusOK, resp.StatusCode)

	var toursList struct {
		Data []server.TourResponse `json:"data"`
		Meta server.Meta           `json:"meta"`
	}

	err = json.NewDecoder(resp.Body).Decode(&toursList)
	resp.Body.Close()
	cs.Require().NoError(err)
	cs.Require().Len(toursList.Data, 15)
	cs.Require().Equal(2, toursList.Meta.LastPage)
	cs.Require().Equal(16, toursList.Meta.Total)
	cs.Require().Equal("100.00", toursList.Data[0].Price)

	resp = cs.doJSON(http.MethodGet, "/travels/example-travel-name/tours?page=2", "", nil)
	cs.Require().Equal(http.StatusOK, resp.StatusCode)

	err = json.NewDecoder(resp.Body).Decode(&toursList)
	resp.Body.Close()
	cs.Require().NoError(err)
	cs.Require().Len(toursList.Data, 1)

	// Сортировка по цене по убыванию
	resp = cs.doJSON(http.MethodGet, "/travels/example-travel-name/tours?sortBy=price&sortOrder=desc", "", nil)
	cs.Require().Equal(http.StatusOK, resp.StatusCode)

	err = json.NewDecoder(resp.Body).Decode(&toursList)
	resp.Body.Close()
	cs.Require().NoError(err)
	cs.Require().Equal("115.00", toursList.Data[0].Price)

	// Фильтр по цене
	resp = cs.doJSON(http.MethodGet, "/travels/example-travel-name/tours?priceFrom=114", "", nil)
	cs.Require().Equal(http.StatusOK, resp.StatusCode)

	err = json.NewDecoder(resp.Body).Decode(&toursList)
	resp.Body.Close()
	cs.Require().NoError(err)
	cs.Require().Equal(2, toursList.Meta.Total)

	// Невалидные параметры дают 422
	resp = cs.doJSON(http.MethodGet, "/travels/example-travel-name/tours?dateFrom=nope", "", nil)
	cs.Require().Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	// Неизвестный slug дает 404
	resp = cs.doJSON(http.MethodGet, "/travels/unknown-travel/tours", "", nil)
	cs.Require().Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}
