package comment

import (
	"encoding/json"
	"reflect"
	"testing"
)

func tree() []*Comment {
	return []*Comment{
		{UUID: "a", Comments: []*Comment{
			{UUID: "a1", Comments: []*Comment{
				{UUID: "a1x"},
			}},
			{UUID: "a2"},
		}},
		{UUID: "b"},
	}
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name  string
		lists []*Comment
		want  []UUID
	}{
		{
			name:  "empty list",
			lists: nil,
			want:  nil,
		},
		{
			name:  "depth first, node before replies",
			lists: tree(),
			want:  []UUID{"a", "a1", "a1x", "a2", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Flatten(tt.lists); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Flatten() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFind(t *testing.T) {
	lists := tree()
	if got := Find(lists, "a1x"); got == nil || got.UUID != "a1x" {
		t.Errorf("Find(a1x) = %v", got)
	}
	if got := Find(lists, "missing"); got != nil {
		t.Errorf("Find(missing) = %v, want nil", got)
	}
}

func TestRemove(t *testing.T) {
	lists := tree()
	if !Remove(&lists, "a1") {
		t.Fatal("Remove(a1) = false")
	}
	if got := Find(lists, "a1"); got != nil {
		t.Errorf("a1 still present after Remove")
	}
	if got := Find(lists, "a1x"); got != nil {
		t.Errorf("a1x subtree survived its parent's removal")
	}
	if Remove(&lists, "missing") {
		t.Error("Remove(missing) = true")
	}
}

func TestListResponseValidate(t *testing.T) {
	var res ListResponse
	if err := json.Unmarshal([]byte(`{"data":{"lists":null,"count":0}}`), &res); err != nil {
		t.Fatal(err)
	}
	if err := res.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if res.Data.Lists == nil {
		t.Error("Validate did not normalize nil lists")
	}

	res.Data.Count = -1
	if err := res.Validate(); err == nil {
		t.Error("negative count passed validation")
	}
}

func TestItemResponseValidate(t *testing.T) {
	tests := []struct {
		name    string
		res     ItemResponse
		wantErr bool
	}{
		{"no data", ItemResponse{}, true},
		{"no uuid", ItemResponse{Data: &Comment{}}, true},
		{"valid", ItemResponse{Data: &Comment{UUID: "u", Own: "o"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.res.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPresenceFromBool(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name string
		in   *bool
		want Presence
	}{
		{"nil is unknown", nil, PresenceUnknown},
		{"true attends", &yes, PresenceAttending},
		{"false does not", &no, PresenceAbsent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PresenceFromBool(tt.in); got != tt.want {
				t.Errorf("PresenceFromBool() = %v, want %v", got, tt.want)
			}
		})
	}
}
