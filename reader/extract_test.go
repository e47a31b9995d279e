package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractArray(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "plain array", in: `[{"a":1},{"b":2}]`, want: 2},
		{name: "empty array", in: `[]`, want: 0},
		{name: "leading log noise", in: "INFO dumping requests\n[{\"a\":1}]", want: 1},
		{name: "trailing commentary", in: "[{\"a\":1},{\"a\":2}]\n-- end of log [x]", want: 2},
		{name: "skips bracketed prose", in: "note [{oops} then [ {\"a\":1} ]", want: 1},
		{name: "object is not an array", in: `{"a":1}`, wantErr: true},
		{name: "null", in: `null`, wantErr: true},
		{name: "garbage", in: `no json here`, wantErr: true},
		{name: "empty", in: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ExtractArray([]byte(tt.in))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoArrayFound)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}
}
