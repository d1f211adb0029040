package tabular

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestScanner_Next(t *testing.T) {
	in := "# header\n\na\tb\r\n#skip\nc\td\n"
	sc := NewScanner(strings.NewReader(in), "test", "#")

	var got []string
	var lines []int
	for {
		line, err := sc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, line)
		lines = append(lines, sc.Line())
	}

	if want := []string{"a\tb", "c\td"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Next() = %q, want %q", got, want)
	}
	if want := []int{3, 5}; !reflect.DeepEqual(lines, want) {
		t.Errorf("Line() = %v, want %v", lines, want)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    int
		wantErr bool
	}{
		{"exact", "a\tb\tc", 3, false},
		{"too few", "a\tb", 3, true},
		{"too many", "a\tb\tc\td", 3, true},
		{"spaces are not separators", "a b\tc", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := Split(tt.line, tt.want, "f", 7)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Split() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var mal *MalformedRecordError
				if !errors.As(err, &mal) {
					t.Fatalf("Split() error %T is not a MalformedRecordError", err)
				}
				if mal.Line != 7 || mal.Want != tt.want {
					t.Errorf("Split() error = %+v", mal)
				}
				if row != nil {
					t.Error("Split() returned a partial row with an error")
				}
			}
		})
	}
}

func TestRow_coercion(t *testing.T) {
	row, err := Split("12\t*\t97.5\t100\t120,5,\t\tx", 7, "f", 1)
	if err != nil {
		t.Fatal(err)
	}

	if got := row.Int(0, "a"); got != 12 {
		t.Errorf("Int() = %d, want 12", got)
	}
	if got := row.OptInt(1, "b"); got.Valid {
		t.Errorf("OptInt(*) = %+v, want invalid", got)
	}
	if got := row.OptFloat(2, "c"); !got.Valid || got.Float != 97.5 {
		t.Errorf("OptFloat() = %+v, want 97.5", got)
	}
	if got := row.OptFloat(3, "d"); !got.Valid || got.Float != 100 {
		t.Errorf("OptFloat() = %+v, want 100", got)
	}
	if got := row.Ints(4, "e"); !reflect.DeepEqual(got, []int{120, 5}) {
		t.Errorf("Ints() = %v, want [120 5]", got)
	}
	if got := row.Ints(5, "f"); len(got) != 0 {
		t.Errorf("Ints(empty) = %v, want []", got)
	}
	if row.Err() != nil {
		t.Fatalf("Err() = %v, want nil", row.Err())
	}

	row.Int(6, "g")
	row.Int(6, "h")
	var mal *MalformedRecordError
	if !errors.As(row.Err(), &mal) || mal.Field != "g" {
		t.Errorf("Err() = %v, want first failure on field g", row.Err())
	}
}
