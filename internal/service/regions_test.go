package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propinsight/internal/model"
)

func TestApplyRegionAction(t *testing.T) {
	set := model.NewRegionSet()

	set, err := ApplyRegionAction(set, RegionActionAdd, "Andheri")
	require.NoError(t, err)
	set, err = ApplyRegionAction(set, RegionActionAdd, "andheri")
	require.NoError(t, err)
	assert.Equal(t, []string{"Andheri", "andheri"}, set.Names(), "case differs, both kept")

	set, err = ApplyRegionAction(set, RegionActionAdd, "Andheri")
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len(), "exact duplicate ignored")

	before := set
	set, err = ApplyRegionAction(set, RegionActionRemove, "Bandra")
	require.NoError(t, err)
	assert.Equal(t, before.Names(), set.Names(), "removing an absent region is a no-op")

	set, err = ApplyRegionAction(set, RegionActionRemove, " Andheri ")
	require.NoError(t, err)
	assert.Equal(t, []string{"andheri"}, set.Names())
	assert.Equal(t, []string{"Andheri", "andheri"}, before.Names(), "input set is not modified")
}

func TestApplyRegionAction_IgnoresBlank(t *testing.T) {
	set, err := ApplyRegionAction(model.NewRegionSet("Powai"), RegionActionAdd, "   ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Powai"}, set.Names())
}

func TestParseRegionAction(t *testing.T) {
	tests := []struct {
		input   string
		want    RegionAction
		wantErr bool
	}{
		{input: "add", want: RegionActionAdd},
		{input: " Remove ", want: RegionActionRemove},
		{input: "toggle", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRegionAction(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var validation *model.ValidationError
				require.ErrorAs(t, err, &validation)
				assert.Equal(t, "action", validation.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
