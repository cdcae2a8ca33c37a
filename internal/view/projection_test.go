package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/opengd77-converter/internal/selection"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
)

func contacts() []types.Contact {
	return []types.Contact{
		{ContactName: "TG 91 Worldwide", ID: 91, IDType: types.IDTypeGroup},
		{ContactName: "DL1ABC John", ID: 2621234, IDType: types.IDTypePrivate},
		{ContactName: "TG 262 Germany", ID: 262, IDType: types.IDTypeGroup},
		{ContactName: "DB0XYZ Repeater", ID: 2625555, IDType: types.IDTypePrivate},
	}
}

func TestProject_FilterAndOrder(t *testing.T) {
	t.Parallel()

	p := Project(contacts(), Filter{Type: "Group"}, nil)
	require.Equal(t, 2, p.Visible)
	assert.Equal(t, []types.Key{"91", "262"}, p.Keys())
	assert.Equal(t, []int{0, 2}, p.Positions)
	assert.Equal(t, 4, p.Total)

	p = Project(contacts(), Filter{Search: "dl1"}, nil)
	assert.Equal(t, []types.Key{"2621234"}, p.Keys())

	p = Project(contacts(), Filter{Search: "TG", Type: TypeAll}, nil)
	assert.Equal(t, 2, p.Visible)

	p = Project(contacts(), Filter{}, nil)
	assert.Equal(t, 4, p.Visible)
}

func TestProject_FilterRoundTripKeepsSelection(t *testing.T) {
	t.Parallel()

	recs := contacts()
	sel := selection.ForKind(types.KindContacts)
	require.NoError(t, sel.Toggle("91"))
	require.NoError(t, sel.Toggle("2621234"))
	before := sel.Keys()

	for _, f := range []Filter{{Type: "Private"}, {Search: "zzz"}, {Type: "Group", Search: "262"}, {}} {
		_ = Project(recs, f, sel)
		assert.Equal(t, before, sel.Keys(), "filter %+v", f)
	}

	p := Project(recs, Filter{Type: "Private"}, sel)
	assert.Equal(t, 1, p.SelectedInView)
	assert.Equal(t, 2, p.SelectedTotal)

	p = Project(recs, Filter{Search: "zzz"}, sel)
	assert.Equal(t, 0, p.Visible)
	assert.Equal(t, 0, p.SelectedInView)
	assert.Equal(t, 2, p.SelectedTotal)
}

func TestProjection_Labels(t *testing.T) {
	t.Parallel()

	recs := contacts()
	sel := selection.New(0)
	sel.SelectAll([]types.Key{"91", "262", "2621234"})

	all := Project(recs, Filter{}, sel)
	assert.Equal(t, "Selected: 3 for import", all.SelectionLabel())
	assert.Equal(t, "Contacts (3/4)", all.TabLabel("Contacts"))
	assert.Equal(t, "Showing: 4 contacts", all.ShowingLabel("contacts"))

	groups := Project(recs, Filter{Type: "Group"}, sel)
	assert.Equal(t, "Selected in filter: 2, Total selected: 3", groups.SelectionLabel())
	assert.Equal(t, "Contacts (2/2)", groups.TabLabel("Contacts"))
	assert.Equal(t, "Showing: 2 contacts", groups.ShowingLabel("contacts"))

	none := Project(recs, Filter{}, selection.New(0))
	assert.Equal(t, "Selected: 0 for import", none.SelectionLabel())
}

func TestFilter_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Filter{}.Validate(ContactTypes))
	assert.NoError(t, Filter{Type: "Digital"}.Validate(ChannelTypes))
	assert.ErrorIs(t, Filter{Type: "Digital"}.Validate(ContactTypes), types.ErrValidation)
	assert.Equal(t, ContactTypes, TypesFor(types.KindContacts))
	assert.Equal(t, ChannelTypes, TypesFor(types.KindChannels))
}

func TestProject_Channels(t *testing.T) {
	t.Parallel()

	a := types.NewChannel(1)
	a.ChannelName, a.ChannelType = "Calling", types.ChannelAnalogue
	d := types.NewChannel(2)
	d.ChannelName, d.ChannelType = "DB0ABC", types.ChannelDigital

	p := Project([]types.Channel{a, d}, Filter{Type: "Digital"}, nil)
	assert.Equal(t, []types.Key{"2"}, p.Keys())
}
