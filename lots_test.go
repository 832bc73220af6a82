package formstate

import (
	"errors"
	"testing"
)

func TestLotsToFieldsPrefixesEachLot(t *testing.T) {
	lots := []map[string]Value{
		{"crop": String("wheat")},
		{"crop": String("barley"), "soil": Object(map[string]Value{"ph": Number(6.1)})},
	}

	fields := LotsToFields(lots)

	if got, _ := fields["lot_0.crop"].StringValue(); got != "wheat" {
		t.Fatalf("lot_0.crop = %q", got)
	}
	if got, _ := fields["lot_1.crop"].StringValue(); got != "barley" {
		t.Fatalf("lot_1.crop = %q", got)
	}
	if got, _ := fields["lot_1.soil.ph"].NumberValue(); got != 6.1 {
		t.Fatalf("lot_1.soil.ph = %v", got)
	}
}

func TestLotCodecRoundTrip(t *testing.T) {
	lots := []map[string]Value{
		{
			"crop":    String("wheat"),
			"samples": Array(Number(1), Number(2)),
		},
		{
			"soil": Object(map[string]Value{"ph": Number(7.0)}),
		},
	}

	back, err := FieldsToLots(LotsToFields(lots))
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if len(back) != len(lots) {
		t.Fatalf("expected %d lots back, got %d", len(lots), len(back))
	}
	for i := range lots {
		if !Object(back[i]).Equal(Object(lots[i])) {
			t.Fatalf("lot %d mismatch:\nwant %v\ngot  %v", i, lots[i], back[i])
		}
	}
}

func TestLotCodecPreservesEmptyLots(t *testing.T) {
	lots := []map[string]Value{
		{"crop": String("wheat")},
		{},
		{"crop": String("rye")},
	}

	fields := LotsToFields(lots)
	if _, ok := fields["lot_1"]; !ok {
		t.Fatalf("empty lot should emit its bare key, got %v", fields)
	}

	back, err := FieldsToLots(fields)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if len(back) != 3 {
		t.Fatalf("expected 3 lots, got %d", len(back))
	}
	if len(back[1]) != 0 {
		t.Fatalf("lot 1 should stay empty, got %v", back[1])
	}
}

func TestFieldsToLotsFillsMissingIndices(t *testing.T) {
	fields := FlatMap{
		"lot_0.crop": String("wheat"),
		"lot_2.crop": String("rye"),
	}

	lots, err := FieldsToLots(fields)
	if err != nil {
		t.Fatalf("fields to lots: %v", err)
	}
	if len(lots) != 3 {
		t.Fatalf("expected dense result of 3 lots, got %d", len(lots))
	}
	if len(lots[1]) != 0 {
		t.Fatalf("missing index should become an empty lot, got %v", lots[1])
	}
}

func TestFieldsToLotsStrictRejectsSparse(t *testing.T) {
	fields := FlatMap{
		"lot_0.crop": String("wheat"),
		"lot_2.crop": String("rye"),
	}

	_, err := FieldsToLots(fields, WithStrictArrays(true))
	if !errors.Is(err, ErrStructuralConflict) {
		t.Fatalf("expected ErrStructuralConflict, got %v", err)
	}
}

func TestFieldsToLotsIgnoresUnprefixedKeys(t *testing.T) {
	fields := FlatMap{
		"lot_0.crop":   String("wheat"),
		"session_note": String("ignored"),
		"lotus.crop":   String("not a lot"),
	}

	lots, err := FieldsToLots(fields)
	if err != nil {
		t.Fatalf("fields to lots: %v", err)
	}
	if len(lots) != 1 {
		t.Fatalf("expected 1 lot, got %d", len(lots))
	}
	if _, ok := lots[0]["session_note"]; ok {
		t.Fatalf("unprefixed key leaked into lot data")
	}
}

func TestFieldsToLotsReconstructsArrays(t *testing.T) {
	fields := FlatMap{
		"lot_0.rows.0.crop": String("wheat"),
		"lot_0.rows.1.crop": String("rye"),
	}

	lots, err := FieldsToLots(fields)
	if err != nil {
		t.Fatalf("fields to lots: %v", err)
	}
	rows, ok := lots[0]["rows"].ArrayValue()
	if !ok || len(rows) != 2 {
		t.Fatalf("expected rows array of 2, got %v", lots[0])
	}
}

func TestLotCodecCustomPrefix(t *testing.T) {
	lots := []map[string]Value{{"crop": String("wheat")}}

	fields := LotsToFields(lots, WithLotPrefix("parcel"))
	if _, ok := fields["parcel_0.crop"]; !ok {
		t.Fatalf("expected parcel_0.crop, got %v", fields)
	}

	back, err := FieldsToLots(fields, WithLotPrefix("parcel"))
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if got, _ := back[0]["crop"].StringValue(); got != "wheat" {
		t.Fatalf("crop = %q", got)
	}
}
