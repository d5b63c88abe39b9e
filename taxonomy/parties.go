package taxonomy

// partyEntries is the canonical party taxonomy. Major parties first so their
// short aliases win keyword ties against minor-party names that embed them.
var partyEntries = []Entry{
	{Canonical: "Democratic", Aliases: []string{
		"democrat", "democrats", "dem", "d", "democratic party",
		"democratic farmer labor", "dfl", "democractic",
	}},
	{Canonical: "Republican", Aliases: []string{
		"republicans", "rep", "r", "gop", "g o p", "grand old party",
		"republican party", "the republican",
	}},
	{Canonical: "Nonpartisan", Aliases: []string{
		"non partisan", "nonpartisan", "non", "np", "npa",
		"no party", "no party affiliation", "no party preference",
		"no affiliation", "nonaffiliated", "unaffiliated", "una",
		"undeclared", "nonpartisan special",
		"no party affiliation (nonpartisan offices)",
		"no party affiliation (partisan)",
	}},
	{Canonical: "Independent", Aliases: []string{
		"ind", "i", "independents", "independent party"},
	},
	{Canonical: "Libertarian", Aliases: []string{
		"lib", "lbt", "l", "libertarians", "libertarian party",
	}},
	{Canonical: "Green", Aliases: []string{
		"green party", "grn", "gre", "greens", "green party of the united states",
	}},
	{Canonical: "Constitution", Aliases: []string{
		"constitution party", "con", "cst", "constitutional",
		"constitutional party", "constitution party nominee",
	}},
	{Canonical: "Progressive", Aliases: []string{"progressive party", "prog"}},
	{Canonical: "Working Families", Aliases: []string{"working families party", "wfp"}},
	{Canonical: "Socialist", Aliases: []string{"socialist party", "soc", "socialist workers"}},
	{Canonical: "Reform", Aliases: []string{"reform party"}},
	{Canonical: "American Independent", Aliases: []string{"american independent party", "aip"}},
	{Canonical: "Natural Law", Aliases: []string{"natural law party", "nlp"}},
	{Canonical: "Write-In", Aliases: []string{"write in", "writein"}},
	{Canonical: "Unknown", Aliases: []string{"n/a", "na", "none", "null", "unk"}},
}

// NewPartyTable builds the shipped party taxonomy.
func NewPartyTable() *Table {
	t, err := NewTable("parties", partyEntries)
	if err != nil {
		panic(err)
	}
	return t
}

// NewOfficeTable builds the shipped office taxonomy in canonical priority
// order.
func NewOfficeTable() *Table {
	t, err := NewTable("offices", officeEntries)
	if err != nil {
		panic(err)
	}
	return t
}
