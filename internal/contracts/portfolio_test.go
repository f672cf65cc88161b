package contracts

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func testAllocation() *Allocation {
	return &Allocation{
		Budget:       decimal.NewFromInt(10000),
		PositionSize: decimal.NewFromInt(5000),
		Positions: []Position{
			{Symbol: "AAA", Price: decimal.NewFromInt(50), Shares: 100},
			{Symbol: "BBB", Price: decimal.NewFromInt(33), Shares: 151},
		},
	}
}

func TestAllocation_Invested(t *testing.T) {
	a := testAllocation()

	want := decimal.NewFromInt(5000 + 4983)
	if got := a.Invested(); !got.Equal(want) {
		t.Errorf("Invested() = %s, want %s", got, want)
	}
	if got := a.Residual(); !got.Equal(decimal.NewFromInt(17)) {
		t.Errorf("Residual() = %s, want 17", got)
	}
}

func TestAllocation_Count(t *testing.T) {
	if count := testAllocation().Count(); count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

func TestAllocation_GetPosition(t *testing.T) {
	a := testAllocation()

	pos, exists := a.GetPosition("BBB")
	if !exists {
		t.Fatal("Expected to find position for BBB")
	}
	if pos.Shares != 151 {
		t.Errorf("Got shares %d, want 151", pos.Shares)
	}

	if _, exists := a.GetPosition("ZZZ"); exists {
		t.Error("Expected not to find position for ZZZ")
	}
}

func TestAllocation_JSON(t *testing.T) {
	data, err := json.Marshal(testAllocation())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Allocation
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !decoded.PositionSize.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("PositionSize = %s, want 5000", decoded.PositionSize)
	}
}

func TestStage_ShortName(t *testing.T) {
	for i, stage := range AllStages() {
		if !IsValidStage(string(stage)) {
			t.Errorf("stage %s not valid", stage)
		}
		if stage.ShortName() == "UNKNOWN" {
			t.Errorf("stage %d has no short name", i)
		}
	}
	if IsValidStage("S9_NOPE") {
		t.Error("unexpected valid stage")
	}
}
