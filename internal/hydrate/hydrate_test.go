package hydrate

import (
	"errors"
	"testing"

	formstate "github.com/goliatone/go-formstate"
)

type parcel struct {
	Crop   string  `json:"crop"`
	AreaHa float64 `json:"area_ha"`
	Rows   int     `json:"rows"`
}

func TestDecodePayload(t *testing.T) {
	decoder := NewDecoder[parcel]()

	got, err := decoder.Decode(Context{SessionID: "s1", Lot: 0}, map[string]any{
		"crop":    "wheat",
		"area_ha": 12.5,
		"rows":    4,
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Crop != "wheat" || got.AreaHa != 12.5 || got.Rows != 4 {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodeNilPayload(t *testing.T) {
	decoder := NewDecoder[parcel]()
	if _, err := decoder.Decode(Context{Lot: 1}, nil); err == nil {
		t.Fatalf("expected error for nil payload")
	}
}

func TestDecodeValuesFromLotData(t *testing.T) {
	decoder := NewDecoder[parcel]()

	values := map[string]formstate.Value{
		"crop":    formstate.String("rye"),
		"area_ha": formstate.Number(3.25),
		"rows":    formstate.Int(2),
	}
	got, err := decoder.DecodeValues(Context{Lot: 2}, values)
	if err != nil {
		t.Fatalf("decode values: %v", err)
	}
	if got.Crop != "rye" || got.Rows != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodeStrictFields(t *testing.T) {
	strict := NewDecoder[parcel](WithStrictFields[parcel]())
	_, err := strict.Decode(Context{}, map[string]any{"crop": "wheat", "bogus": 1})
	if err == nil {
		t.Fatalf("expected unknown field rejection")
	}

	loose := NewDecoder[parcel]()
	if _, err := loose.Decode(Context{}, map[string]any{"crop": "wheat", "bogus": 1}); err != nil {
		t.Fatalf("loose decode: %v", err)
	}
}

func TestDecodeHooks(t *testing.T) {
	decoder := NewDecoder[parcel](
		WithPreHook[parcel](func(_ Context, payload map[string]any) (map[string]any, error) {
			if _, ok := payload["crop"]; !ok {
				payload["crop"] = "fallow"
			}
			return payload, nil
		}),
		WithPostHook[parcel](func(_ Context, p *parcel) error {
			if p.AreaHa < 0 {
				return errors.New("negative area")
			}
			return nil
		}),
	)

	got, err := decoder.Decode(Context{}, map[string]any{"area_ha": 1.0})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Crop != "fallow" {
		t.Fatalf("pre-hook default missing: %+v", got)
	}

	if _, err := decoder.Decode(Context{}, map[string]any{"area_ha": -1.0}); err == nil {
		t.Fatalf("expected post-hook validation error")
	}
}

func TestDecodeHookErrorsCarryLot(t *testing.T) {
	boom := errors.New("boom")
	decoder := NewDecoder[parcel](
		WithPreHook[parcel](func(Context, map[string]any) (map[string]any, error) {
			return nil, boom
		}),
	)
	_, err := decoder.Decode(Context{Lot: 3}, map[string]any{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped hook error, got %v", err)
	}
}
