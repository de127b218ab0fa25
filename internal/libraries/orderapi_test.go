package libraries

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lexedit-backend/internal/models"
)

func TestGetOrderData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/GetOrderData" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("orderNumber") != "42" || q.Get("userId") != "7" || q.Get("sessionId") != "abc" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`"{\"FrontTemplateID\":11}"`))
	}))
	defer srv.Close()

	api := NewOrderAPI(srv.URL+"/api", time.Second)
	raw, err := api.GetOrderData(context.Background(), 42, 7, "abc")
	if err != nil {
		t.Fatalf("GetOrderData: %v", err)
	}
	if raw != `{"FrontTemplateID":11}` {
		t.Errorf("unexpected body %q", raw)
	}
}

func TestSaveDataPostsForm(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/SaveData" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		got = map[string]string{}
		for k := range r.PostForm {
			got[k] = r.PostForm.Get(k)
		}
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	api := NewOrderAPI(srv.URL, time.Second)
	res, err := api.SaveData(context.Background(), models.FacePayload{
		JSONData: `{"version":1}`, OrderNumber: 42, SessionID: "abc", PageNumber: models.FaceBack, ProductID: 12,
	})
	if err != nil {
		t.Fatalf("SaveData: %v", err)
	}
	if res != "OK" {
		t.Errorf("unexpected result %q", res)
	}
	want := map[string]string{
		"jsonData": `{"version":1}`, "orderNumber": "42", "sessionID": "abc", "pageNumber": "2", "productID": "12",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: expected %q, got %q", k, v, got[k])
		}
	}
}

func TestAddObjectReturnsID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("1234\n"))
	}))
	defer srv.Close()

	id, err := NewOrderAPI(srv.URL, time.Second).AddObject(context.Background(), models.FacePayload{PageNumber: models.FaceFront})
	if err != nil {
		t.Fatalf("AddObject: %v", err)
	}
	if id != 1234 {
		t.Errorf("expected 1234, got %d", id)
	}
}

func TestOrderAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/AddObject" {
			w.Write([]byte("not a number"))
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	api := NewOrderAPI(srv.URL, time.Second)
	if _, err := api.SaveData(context.Background(), models.FacePayload{}); err == nil {
		t.Errorf("expected an error for a 500 response")
	}
	if _, err := api.AddObject(context.Background(), models.FacePayload{}); err == nil {
		t.Errorf("expected an error for a non-numeric id")
	}
}
