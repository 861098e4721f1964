package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tableorder-telegram/models"
)

func TestCategoriesAndMenus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/categories":
			w.Write([]byte(`[{"id":1,"name":"Soups","disable":false},{"id":2,"name":"Drinks","disable":true}]`))
		case "/menus":
			w.Write([]byte(`[{"id":7,"name":"Tom Yum","price":100,"imageUrl":"/img/7.jpg","categoryId":1,"disable":false,
				"optionGroups":[{"id":1,"menuId":7,"optionGroupId":10,"disable":false,
					"optionGroup":{"id":10,"name":"Size","isRequired":true,"disable":false,
						"choices":[{"id":100,"name":"Regular","price":0,"disable":false},
						           {"id":101,"name":"Large","price":20,"disable":false}]}}]}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	ctx := context.Background()

	cats, err := c.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 2 || cats[0].Name != "Soups" || !cats[1].Disable {
		t.Errorf("categories decoded wrong: %+v", cats)
	}

	menus, err := c.Menus(ctx)
	if err != nil {
		t.Fatalf("menus: %v", err)
	}
	if len(menus) != 1 {
		t.Fatalf("menus = %d, want 1", len(menus))
	}
	m := menus[0]
	if m.ID != 7 || m.Price != 100 || m.CategoryID != 1 {
		t.Errorf("menu decoded wrong: %+v", m)
	}
	if len(m.OptionGroups) != 1 {
		t.Fatalf("option groups = %d, want 1", len(m.OptionGroups))
	}
	g := m.OptionGroups[0].OptionGroup
	if g.Name != "Size" || !g.IsRequired || len(g.Choices) != 2 || g.Choices[1].Price != 20 {
		t.Errorf("option group decoded wrong: %+v", g)
	}
}

func TestStatusErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.SessionInfo(context.Background(), "bad")

	var status *StatusError
	if !errors.As(err, &status) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if status.Code != http.StatusUnauthorized || status.Message != "invalid token" {
		t.Errorf("StatusError = %+v", status)
	}
}

func TestStatusErrorWithoutMessageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream blew up"))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Categories(context.Background())

	var status *StatusError
	if !errors.As(err, &status) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if status.Message != "" {
		t.Errorf("non-JSON body should leave Message empty, got %q", status.Message)
	}
}

func TestCreateOrderPostsBody(t *testing.T) {
	var got models.CreateOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	req := models.CreateOrderRequest{
		Token: "tok",
		Items: []models.OrderItem{{
			MenuID: 7, Quantity: 2, Remark: "no onions",
			Options: []models.OrderOption{{OptionGroupID: 10, OptionChoiceID: 101, GroupName: "Size", ChoiceName: "Large"}},
		}},
	}
	if err := c.CreateOrder(context.Background(), req); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if got.Token != "tok" || len(got.Items) != 1 || got.Items[0].Options[0].ChoiceName != "Large" {
		t.Errorf("body mismatch: %+v", got)
	}
}

func TestMyOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"orders":[{"id":5,"menu":{"name":"Pad Thai","imageUrl":"/p.jpg"},
			"quantity":1,"priceAtTime":90,"status":"PENDING",
			"options":[{"optionGroup":"Size","optionChoice":"Regular"}]}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	orders, err := c.MyOrders(context.Background(), "tok")
	if err != nil {
		t.Fatalf("my orders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	o := orders[0]
	if o.ID != 5 || o.Menu.Name != "Pad Thai" || o.PriceAtTime != 90 || o.Status != "PENDING" {
		t.Errorf("order decoded wrong: %+v", o)
	}
	if len(o.Options) != 1 || o.Options[0].OptionChoice != "Regular" {
		t.Errorf("options decoded wrong: %+v", o.Options)
	}
}
