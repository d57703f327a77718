package bignum

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genBigUint generates normalized values of up to maxLimbs limbs.
func genBigUint(maxLimbs int) gopter.Gen {
	return gen.IntRange(1, maxLimbs).FlatMap(func(n interface{}) gopter.Gen {
		return gen.SliceOfN(n.(int), gen.UInt64())
	}, reflect.TypeOf([]uint64{})).Map(func(limbs []uint64) *BigUint {
		return FromLimbs(limbs)
	})
}

func newProperties() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	return gopter.NewProperties(parameters)
}

// TestAddSubRoundTrip_PropertyBased verifies |(a + b) - b| = a.
func TestAddSubRoundTrip_PropertyBased(t *testing.T) {
	properties := newProperties()

	properties.Property("(a + b) - b == a", prop.ForAll(
		func(a, b *BigUint) bool {
			sum := AddInto(a.Clone(), b)
			diff := New(1).SubAbs(sum, b)
			return Compare(diff, a) == 0 && isNormalized(diff)
		},
		genBigUint(12), genBigUint(12),
	))

	properties.Property("SubAbs is symmetric", prop.ForAll(
		func(a, b *BigUint) bool {
			return Compare(New(1).SubAbs(a, b), New(1).SubAbs(b, a)) == 0
		},
		genBigUint(8), genBigUint(8),
	))

	properties.TestingRun(t)
}

// TestCompareAntisymmetry_PropertyBased verifies Compare(a,b) == -Compare(b,a)
// and that Compare agrees with math/big.
func TestCompareAntisymmetry_PropertyBased(t *testing.T) {
	properties := newProperties()

	properties.Property("Compare is antisymmetric", prop.ForAll(
		func(a, b *BigUint) bool {
			return Compare(a, b) == -Compare(b, a)
		},
		genBigUint(4), genBigUint(4),
	))

	properties.Property("Compare matches math/big", prop.ForAll(
		func(a, b *BigUint) bool {
			return Compare(a, b) == toBig(a).Cmp(toBig(b))
		},
		genBigUint(4), genBigUint(4),
	))

	properties.Property("Compare is reflexive", prop.ForAll(
		func(a *BigUint) bool {
			return Compare(a, a.Clone()) == 0
		},
		genBigUint(6),
	))

	properties.TestingRun(t)
}

// TestShiftRoundTrip_PropertyBased verifies (a << s) >> s == a.
func TestShiftRoundTrip_PropertyBased(t *testing.T) {
	properties := newProperties()

	properties.Property("(a << s) >> s == a", prop.ForAll(
		func(a *BigUint, s uint) bool {
			got := a.Clone().Lsh(s).Rsh(s)
			return Compare(got, a) == 0 && isNormalized(got)
		},
		genBigUint(8), gen.UIntRange(0, 1000),
	))

	properties.Property("a << s == a * 2^s", prop.ForAll(
		func(a *BigUint, s uint) bool {
			want := toBig(a)
			want.Lsh(want, s)
			return toBig(a.Clone().Lsh(s)).Cmp(want) == 0
		},
		genBigUint(8), gen.UIntRange(0, 300),
	))

	properties.TestingRun(t)
}

// TestMultiplierAgreement_PropertyBased verifies that the schoolbook and
// transform multipliers agree, and that multiplication commutes.
func TestMultiplierAgreement_PropertyBased(t *testing.T) {
	properties := newProperties()

	properties.Property("schoolbook == ntt", prop.ForAll(
		func(a, b *BigUint) bool {
			viaNTT := New(1)
			if err := MulNTT(viaNTT, a, b); err != nil {
				t.Logf("MulNTT failed: %v", err)
				return false
			}
			return Compare(MulSchoolbook(New(1), a, b), viaNTT) == 0
		},
		genBigUint(48), genBigUint(48),
	))

	properties.Property("a * b == b * a", prop.ForAll(
		func(a, b *BigUint) bool {
			return Compare(Mul(New(1), a, b), Mul(New(1), b, a)) == 0
		},
		genBigUint(16), genBigUint(16),
	))

	properties.Property("product matches math/big", prop.ForAll(
		func(a, b *BigUint) bool {
			want := toBig(a)
			want.Mul(want, toBig(b))
			return toBig(Mul(New(1), a, b)).Cmp(want) == 0
		},
		genBigUint(24), genBigUint(24),
	))

	properties.TestingRun(t)
}

// TestSerialization_PropertyBased checks decimal and byte encodings.
func TestSerialization_PropertyBased(t *testing.T) {
	properties := newProperties()

	properties.Property("decimal matches math/big", prop.ForAll(
		func(a *BigUint) bool {
			return a.String() == toBig(a).String()
		},
		genBigUint(10),
	))

	properties.Property("DecodeLimbs(EncodeMinimal(a)) == a", prop.ForAll(
		func(a *BigUint) bool {
			return Compare(FromLimbs(DecodeLimbs(EncodeMinimal(a.Limbs()))), a) == 0
		},
		genBigUint(10),
	))

	properties.TestingRun(t)
}
