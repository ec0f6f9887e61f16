package extensions

import (
	"math"
	"testing"
	"time"
)

func Test_FilterSingle_ErrorsOnMultipleMatches(t *testing.T) {
	values := []string{"1. open", "2. high", "3. low", "4. close"}

	res, err := FilterSingle(values, func(s string) bool { return s == "2. high" })
	if err != nil {
		t.Fatalf("expected single match, got error: %s", err)
	}
	AssertAreEqual(t, "single", "2. high", res)

	if _, err := FilterSingle(values, func(s string) bool { return len(s) > 0 }); err == nil {
		t.Fatalf("expected an error when every element matches")
	}
}

func Test_GroupBy_PreservesOrder(t *testing.T) {
	values := []string{"TCS:1", "INFY:1", "TCS:2"}
	groups := GroupBy(values, func(s string) string { return s[:3] })

	AssertAreEqual(t, "groups", 2, len(groups))
	AssertAreEqual(t, "first tcs", "TCS:1", groups["TCS"][0])
	AssertAreEqual(t, "second tcs", "TCS:2", groups["TCS"][1])
	AssertAreEqual(t, "sorted keys", "INF", SortedKeys(groups)[0])
}

func Test_Round(t *testing.T) {
	AssertAreEqual(t, "half up", 1.24, Round(1.235, 2))
	AssertAreEqual(t, "negative", -12.35, Round(-12.345, 2))
	AssertIsNaN(t, "nan", Round(math.NaN(), 2))
}

func Test_FiniteChecks(t *testing.T) {
	AssertAreEqual(t, "finite", true, IsFinite(1.5))
	AssertAreEqual(t, "inf", false, IsFinite(math.Inf(1)))
	AssertAreEqual(t, "nan", false, IsFinite(math.NaN()))
	AssertAreEqual(t, "fits", true, FitsInt64(1e18))
	AssertAreEqual(t, "negative fits", true, FitsInt64(-1e18))
	AssertAreEqual(t, "too large", false, FitsInt64(1e30))
	AssertAreEqual(t, "max int64 as float", false, FitsInt64(math.MaxInt64))
	AssertAreEqual(t, "too small", false, FitsInt64(-1e30))
}

func Test_Formatters(t *testing.T) {
	d := time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC)
	AssertAreEqual(t, "short", "2024-03-07", FmtShort(d))
	AssertAreEqual(t, "month", "2024-03", FmtMonth(d))
	AssertAreEqual(t, "sum", 6, Sum([]int{1, 2, 3}))
	AssertAreEqual(t, "min", 2.5, Min(2.5, 3))
}
