package fetch

import (
	"context"
	"errors"
	"testing"

	"genui/internal/intent"
)

func TestDefaultRegistryCoversConcreteDomains(t *testing.T) {
	r := NewDefaultRegistry()
	for _, domain := range []intent.Intent{
		intent.Weather, intent.POI, intent.RoutePlanning,
		intent.Music, intent.VehicleControl, intent.Image,
	} {
		data := r.FetchFor(context.Background(), intent.Result{Intent: domain}, "test")
		if len(data) == 0 {
			t.Fatalf("no data for %s", domain)
		}
	}
}

func TestFetchForChatIsNil(t *testing.T) {
	r := NewDefaultRegistry()
	if data := r.FetchFor(context.Background(), intent.Result{Intent: intent.Chat}, "hi"); data != nil {
		t.Fatalf("chat has no fetcher, got %+v", data)
	}
}

func TestFetchFailureIsSoft(t *testing.T) {
	r := NewRegistry()
	r.Register(intent.Weather, FetcherFunc(func(context.Context, string, map[string]any) (map[string]any, error) {
		return nil, errors.New("upstream down")
	}))
	if data := r.FetchFor(context.Background(), intent.Result{Intent: intent.Weather}, "天气"); data != nil {
		t.Fatalf("failure must yield nil, got %+v", data)
	}
}

func TestFetchResultCached(t *testing.T) {
	calls := 0
	r := NewRegistry()
	r.Register(intent.Weather, FetcherFunc(func(context.Context, string, map[string]any) (map[string]any, error) {
		calls++
		return map[string]any{"weather": map[string]any{"temp": float64(20)}}, nil
	}))
	res := intent.Result{Intent: intent.Weather, Entities: map[string]any{"city": "上海"}}
	r.FetchFor(context.Background(), res, "上海天气")
	r.FetchFor(context.Background(), res, "上海天气")
	if calls != 1 {
		t.Fatalf("expected one upstream call, got %d", calls)
	}
}

func TestEntitySelection(t *testing.T) {
	r := NewDefaultRegistry()
	res := intent.Result{Intent: intent.Weather, Entities: map[string]any{"city": "北京"}}
	data := r.FetchFor(context.Background(), res, "北京天气")
	weather := data["weather"].(map[string]any)
	if weather["city"] != "北京" {
		t.Fatalf("entity city ignored: %+v", weather)
	}
}
