package spend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

func TestScalarUint64(t *testing.T) {
	for _, group := range []curve.Curve{curve.T256(), curve.Secp256k1{}} {
		t.Run(group.Name(), func(t *testing.T) {
			// Scalars marshal little-endian, so the value must come back
			// from the first limb, not the last.
			for _, v := range []uint64{0, 1, 17, 255, 1 << 32, 1<<40 + 12345, 1<<63 + 7} {
				got, err := scalarUint64(group.NewScalar().SetUInt64(v))
				require.NoError(t, err)
				assert.Equal(t, v, got, "value %d", v)
			}
		})
	}
}
