package testutil

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"time"

	"pubreview/internal/pubreview/model"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func NewUser(username string, role model.Role) *model.User {
	return &model.User{
		ID:        primitive.NewObjectID(),
		Email:     username + "@example.com",
		Username:  username,
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Tester",
		Role:      role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func NewPublication(owner *model.User, name, revision string) *model.Publication {
	return &model.Publication{
		ID:            primitive.NewObjectID(),
		Owner:         owner.ID,
		Name:          name,
		Revision:      revision,
		Title:         "Title of " + name,
		Current:       true,
		Collaborators: []primitive.ObjectID{},
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func NewReview(owner *model.User, publication *model.Publication, status model.ReviewStatus) *model.Review {
	return &model.Review{
		ID:          primitive.NewObjectID(),
		Publication: publication.ID,
		Owner:       owner.ID,
		Status:      status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func NewComment(owner *model.User, review *model.Review, contents string) *model.Comment {
	id := primitive.NewObjectID()
	return &model.Comment{
		ID:          id,
		Owner:       owner.ID,
		Review:      review.ID,
		Publication: review.Publication,
		Thread:      id,
		Contents:    contents,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// PerformRequest sends a JSON request through e and records the response.
func PerformRequest(e *echo.Echo, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var bodyReader *strings.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = strings.NewReader(string(b))
	} else {
		bodyReader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// DecodeBody unmarshals the recorded JSON response into a generic map.
func DecodeBody(rec *httptest.ResponseRecorder) map[string]any {
	out := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return out
}
