package array

import (
	"errors"
	"testing"

	"github.com/chazu/rbcore/convert"
	"github.com/chazu/rbcore/types"
	"github.com/chazu/rbcore/vm"
)

func TestSplat(t *testing.T) {
	interp := newVM()

	ary := FromValues(interp, ints(1))
	if got, err := Splat(interp, ary); err != nil || got != ary {
		t.Errorf("Splat(Array) = %v, %v; want the same Array", got, err)
	}

	got, err := Splat(interp, vm.FromSmallInt(7))
	if err != nil {
		t.Fatal(err)
	}
	assertContents(t, interp, got, ints(7))

	got, err = Splat(interp, vm.Nil)
	if err != nil {
		t.Fatal(err)
	}
	assertContents(t, interp, got, nil)

	converted := FromValues(interp, ints(8, 9))
	if got, _ := Splat(interp, convertible(interp, "to_a", returning(converted))); got != converted {
		t.Error("Splat should return the to_a result")
	}

	bad := convertible(interp, "to_a", returning(interp.NewString("no")))
	_, err = Splat(interp, bad)
	var cannot *CannotConvertError
	if !errors.As(err, &cannot) {
		t.Fatalf("err = %v, want CannotConvert", err)
	}
	if cannot.Method != "to_a" || cannot.Gives != "String" || cannot.From != interp.PrettyName(bad) {
		t.Errorf("CannotConvert = %+v", cannot)
	}
}

func TestToAryPrefersToAry(t *testing.T) {
	interp := newVM()
	viaToAry := FromValues(interp, ints(1))
	c := interp.DefineClass("Both", nil)
	c.AddMethod0("to_ary", returning(viaToAry))
	c.AddMethod0("to_a", returning(New(interp)))

	got, err := ToAry(interp, interp.NewObject(c))
	if err != nil || got != viaToAry {
		t.Errorf("ToAry = %v, %v; want the to_ary result", got, err)
	}

	got, err = ToAry(interp, interp.Intern("s"))
	if err != nil {
		t.Fatal(err)
	}
	assertContents(t, interp, got, []vm.Value{interp.Intern("s")})
}

func TestSequenceCodecs(t *testing.T) {
	interp := newVM()

	bufs := [][]byte{[]byte("ab"), {}, []byte("c")}
	codec := Of[[]byte](convert.Bytes)
	back, err := codec.TryConvert(interp, codec.ConvertMut(interp, bufs))
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != len(bufs) {
		t.Fatalf("round trip length = %d", len(back))
	}
	for i := range bufs {
		if string(back[i]) != string(bufs[i]) {
			t.Errorf("element %d = %q, want %q", i, back[i], bufs[i])
		}
	}

	opt := Of(convert.Optional[[]byte](convert.Bytes))
	b := []byte("x")
	v := opt.ConvertMut(interp, []*[]byte{&b, nil})
	vs := contents(t, interp, v)
	if len(vs) != 2 || vs[1] != vm.Nil {
		t.Errorf("optional elements = %s", Inspect(interp, v))
	}

	nested := Of(Of[int64](convert.Int))
	grid, err := nested.TryConvert(interp, nested.ConvertMut(interp, [][]int64{{1, 2}, {}, {3}}))
	if err != nil || len(grid) != 3 || grid[0][1] != 2 || grid[2][0] != 3 {
		t.Errorf("nested round trip = %v, %v", grid, err)
	}
}

func TestSequenceCodecFailures(t *testing.T) {
	interp := newVM()
	ints64 := Of[int64](convert.Int)

	mixed := FromValues(interp, []vm.Value{vm.FromSmallInt(1), interp.NewString("two")})
	got, err := ints64.TryConvert(interp, mixed)
	var ue *convert.UnboxError
	if !errors.As(err, &ue) || ue.Expected != types.HostSignedInt || ue.Actual != types.String {
		t.Errorf("err = %v, want UnboxError for the String element", err)
	}
	if got != nil {
		t.Errorf("partial result %v returned", got)
	}

	if _, err := Values.TryConvert(interp, vm.True); !errors.As(err, &ue) || ue.Expected != types.HostSlice || ue.Actual != types.Bool {
		t.Errorf("Values from true err = %v", err)
	}

	vs := []vm.Value{vm.True, vm.Nil}
	back, err := Values.TryConvert(interp, Values.ConvertMut(interp, vs))
	if err != nil || len(back) != 2 || back[0] != vm.True {
		t.Errorf("Values round trip = %v, %v", back, err)
	}
}
