package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bigfoot-cleaning/bigfoot-api/config"
	"github.com/bigfoot-cleaning/bigfoot-api/models"
	"github.com/bigfoot-cleaning/bigfoot-api/routes"
	"github.com/bigfoot-cleaning/bigfoot-api/services"
	"github.com/bigfoot-cleaning/bigfoot-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// SessionFlowTestSuite drives the full router through signup, login and quote handling
type SessionFlowTestSuite struct {
	suite.Suite
	router   *gin.Engine
	db       *gorm.DB
	tokens   *services.TokenService
	notifier *services.RecordingNotifier
}

// SetupSuite runs once before all tests
func (suite *SessionFlowTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(suite.T())
}

// SetupTest runs before each test
func (suite *SessionFlowTestSuite) SetupTest() {
	testutil.RequireTestEnvironment(suite.T())

	suite.db = testutil.SetupTestDB(suite.T())
	config.SetDB(suite.db)

	services.NewMockPhotoStorage().SetAsMockForTesting()
	suite.notifier = services.NewRecordingNotifier()
	suite.notifier.SetAsMockForTesting()

	suite.tokens = testutil.NewTokenService(suite.T())
	suite.router = routes.Setup(&config.Config{
		GoEnv:              "test",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}, suite.tokens)
}

// TearDownTest runs after each test
func (suite *SessionFlowTestSuite) TearDownTest() {
	config.SetDB(nil)
	services.SetPhotoStorage(nil)
	services.SetNotifier(nil)
}

func (suite *SessionFlowTestSuite) request(method, path string, body interface{}, cookie *http.Cookie) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &response)
	}
	return w, response
}

func (suite *SessionFlowTestSuite) login(path, email, password string) *http.Cookie {
	w, _ := suite.request(http.MethodPost, path, gin.H{"email": email, "password": password}, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	suite.FailNow("login did not set a session cookie")
	return nil
}

func quoteBody(email string) gin.H {
	return gin.H{
		"fullName":      "River Stone",
		"email":         email,
		"phone":         "5035550100",
		"address":       "12 Cedar Lane",
		"zip":           "97201",
		"serviceType":   "roof moss removal",
		"preferredDate": "2026-11-02T09:30",
	}
}

// TestUserWorkflow covers signup, login, profile and quote ownership for a user
func (suite *SessionFlowTestSuite) TestUserWorkflow() {
	w, _ := suite.request(http.MethodPost, "/api/signup", gin.H{
		"username": "river", "email": "River@Example.com", "password": "correct-horse",
	}, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	cookie := suite.login("/api/login", "river@example.com", "correct-horse")

	w, resp := suite.request(http.MethodGet, "/api/user", nil, cookie)
	suite.Require().Equal(http.StatusOK, w.Code)
	user := resp["data"].(map[string]interface{})
	assert.Equal(suite.T(), "river@example.com", user["email"])
	assert.Equal(suite.T(), true, user["is_online"])

	w, _ = suite.request(http.MethodPost, "/api/profile/create", gin.H{
		"firstname": "River", "lastname": "Stone", "state": "OR", "city": "Portland", "zip": "97201",
	}, cookie)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w, resp = suite.request(http.MethodPost, "/api/quote/create", quoteBody("river@example.com"), cookie)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	quote := resp["data"].(map[string]interface{})
	assert.EqualValues(suite.T(), user["id"], quote["user_id"])
	assert.Nil(suite.T(), quote["guest_id"])

	w, resp = suite.request(http.MethodGet, "/api/quote/get", nil, cookie)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.EqualValues(suite.T(), 1, resp["count"])

	w, _ = suite.request(http.MethodPost, "/api/logout", nil, cookie)
	suite.Require().Equal(http.StatusOK, w.Code)

	var stored models.User
	suite.Require().NoError(suite.db.Where("email = ?", "river@example.com").First(&stored).Error)
	assert.False(suite.T(), stored.IsOnline)
	assert.NotNil(suite.T(), stored.LastLoginAt)
}

// TestGuestAndEmployeeWorkflow covers anonymous quotes and the employee dashboard
func (suite *SessionFlowTestSuite) TestGuestAndEmployeeWorkflow() {
	for i := 0; i < 2; i++ {
		w, _ := suite.request(http.MethodPost, "/api/quote/create", quoteBody("guest@example.com"), nil)
		suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}

	var guests int64
	suite.db.Model(&models.Guest{}).Count(&guests)
	assert.Equal(suite.T(), int64(1), guests)
	assert.Len(suite.T(), suite.notifier.Quotes(), 2)

	w, resp := suite.request(http.MethodGet, "/api/quote/get?email=guest@example.com", nil, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.EqualValues(suite.T(), 2, resp["count"])

	// the first admin bootstraps without a session, then creates the crew account
	w, _ = suite.request(http.MethodPost, "/api/employeeSignUp", gin.H{
		"username": "owner", "email": "owner@bigfoot.com", "password": "secret1",
		"position": "Owner", "role": "ADMIN", "startDate": "2024-01-02",
	}, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	admin := suite.login("/api/employeeLogin", "owner@bigfoot.com", "secret1")

	w, _ = suite.request(http.MethodPost, "/api/employeeSignUp", gin.H{
		"username": "crew", "email": "crew@bigfoot.com", "password": "secret1",
		"position": "Crew Lead", "role": "EMPLOYEE", "startDate": "2024-07-07",
	}, admin)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	staff := suite.login("/api/employeeLogin", "crew@bigfoot.com", "secret1")

	w, resp = suite.request(http.MethodGet, "/api/employee", nil, staff)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), "Crew Lead", resp["data"].(map[string]interface{})["position"])

	w, resp = suite.request(http.MethodGet, "/api/quote/get", nil, staff)
	suite.Require().Equal(http.StatusOK, w.Code)
	quotes := resp["data"].([]interface{})
	suite.Require().Len(quotes, 2)
	first := quotes[0].(map[string]interface{})
	assert.NotNil(suite.T(), first["guest"])

	id := uint(first["id"].(float64))
	w, _ = suite.request(http.MethodDelete, fmt.Sprintf("/api/quote/delete?id=%d", id), nil, staff)
	suite.Require().Equal(http.StatusOK, w.Code)

	w, _ = suite.request(http.MethodDelete, fmt.Sprintf("/api/quote/delete?id=%d", id), nil, staff)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestAnonymousAdminSignUpIsRejected keeps staff-only quote access closed to self-registered accounts
func (suite *SessionFlowTestSuite) TestAnonymousAdminSignUpIsRejected() {
	testutil.CreateEmployee(suite.T(), suite.db, "owner", "owner@bigfoot.com", "secret1", models.RoleAdmin)
	w, _ := suite.request(http.MethodPost, "/api/quote/create", quoteBody("victim@example.com"), nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w, resp := suite.request(http.MethodPost, "/api/employeeSignUp", gin.H{
		"username": "intruder", "email": "intruder@example.com", "password": "secret1",
		"position": "Boss", "role": "ADMIN", "startDate": "2024-07-07",
	}, nil)
	suite.Require().Equal(http.StatusUnauthorized, w.Code)
	assert.Equal(suite.T(), "UNAUTHORIZED", resp["error"].(map[string]interface{})["code"])

	w, resp = suite.request(http.MethodPost, "/api/employeeLogin", gin.H{"email": "intruder@example.com", "password": "secret1"}, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "EMPLOYEE_NOT_FOUND", resp["error"].(map[string]interface{})["code"])
	assert.Empty(suite.T(), w.Result().Cookies())

	w, _ = suite.request(http.MethodGet, "/api/quote/get", nil, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.NotContains(suite.T(), w.Body.String(), "12 Cedar Lane")

	w, _ = suite.request(http.MethodDelete, "/api/quote/delete?id=1", nil, nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	var quotes int64
	suite.db.Model(&models.Quote{}).Count(&quotes)
	assert.Equal(suite.T(), int64(1), quotes)
}

// TestSessionTokensAreNotInterchangeable covers forged and cross-role cookies
func (suite *SessionFlowTestSuite) TestSessionTokensAreNotInterchangeable() {
	testutil.CreateUser(suite.T(), suite.db, "river", "river@example.com", "correct-horse")
	cookie := suite.login("/api/login", "river@example.com", "correct-horse")

	tampered := *cookie
	replacement := "A"
	if cookie.Value[len(cookie.Value)-1] == 'A' {
		replacement = "B"
	}
	tampered.Value = cookie.Value[:len(cookie.Value)-1] + replacement
	w, resp := suite.request(http.MethodGet, "/api/user", nil, &tampered)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(suite.T(), "INVALID_TOKEN", resp["error"].(map[string]interface{})["code"])

	w, _ = suite.request(http.MethodDelete, "/api/quote/delete?id=1", nil, cookie)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// a tampered cookie falls back to anonymous on optional routes
	w, _ = suite.request(http.MethodGet, "/api/quote/get", nil, &tampered)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestSessionFlowTestSuite runs the test suite
func TestSessionFlowTestSuite(t *testing.T) {
	suite.Run(t, new(SessionFlowTestSuite))
}
