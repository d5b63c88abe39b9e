package importer

import "strings"

// ColumnMapping names the source columns each record field can come from.
// Aliases are matched against lowercased, trimmed headers; first hit wins.
type ColumnMapping struct {
	Name         []string
	Office       []string
	Party        []string
	Address      []string
	County       []string
	ElectionYear []string
	ElectionDate []string
	Phone        []string
	State        []string
}

// defaultMapping covers the column names the common state exports use.
var defaultMapping = ColumnMapping{
	Name: []string{
		"candidate_name", "candidate name", "candidate", "name",
		"ballot name", "candidate's name", "full name",
	},
	Office: []string{
		"office", "office_name", "office name", "office sought",
		"contest", "contest title", "race",
	},
	Party: []string{
		"party", "party_name", "party name", "political party",
		"party affiliation", "party_code",
	},
	Address: []string{
		"address", "mailing address", "mailing_address",
		"residence address", "candidate address", "address 1",
	},
	County: []string{"county", "county_name", "county name", "jurisdiction"},
	ElectionYear: []string{
		"election_year", "election year", "year", "elect_year",
	},
	ElectionDate: []string{
		"election_date", "election date", "election", "elect_date",
	},
	Phone: []string{"phone", "phone number", "telephone", "phone_number"},
	State: []string{"state", "state_name", "state name"},
}

// stateMappings override or extend the default aliases for states whose
// exports use their own column vocabulary.
var stateMappings = map[string]ColumnMapping{
	"AK": {
		Name:   []string{"candidate"},
		Office: []string{"seat", "office type"},
		Party:  []string{"political group"},
	},
	"FL": {
		Name:    []string{"candname", "candidate full name"},
		Office:  []string{"officedesc"},
		Party:   []string{"partycode", "partydesc"},
		Address: []string{"addr1", "address line 1"},
	},
	"WV": {
		Name:   []string{"candidate name on ballot"},
		Office: []string{"office/division"},
	},
}

// mappingFor merges the default mapping with the state's overrides. Override
// aliases are tried first so a state's narrower vocabulary wins.
func mappingFor(stateCode string) ColumnMapping {
	m := defaultMapping
	override, ok := stateMappings[strings.ToUpper(strings.TrimSpace(stateCode))]
	if !ok {
		return m
	}
	m.Name = append(append([]string{}, override.Name...), m.Name...)
	m.Office = append(append([]string{}, override.Office...), m.Office...)
	m.Party = append(append([]string{}, override.Party...), m.Party...)
	m.Address = append(append([]string{}, override.Address...), m.Address...)
	m.County = append(append([]string{}, override.County...), m.County...)
	m.ElectionYear = append(append([]string{}, override.ElectionYear...), m.ElectionYear...)
	m.ElectionDate = append(append([]string{}, override.ElectionDate...), m.ElectionDate...)
	m.Phone = append(append([]string{}, override.Phone...), m.Phone...)
	m.State = append(append([]string{}, override.State...), m.State...)
	return m
}

// columnIndices resolves a header row against a mapping. Missing columns
// resolve to -1.
type columnIndices struct {
	name, office, party, address     int
	county, electionYear, electDate  int
	phone, state                     int
}

func resolveColumns(headers []string, m ColumnMapping) columnIndices {
	headerMap := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := headerMap[key]; !seen {
			headerMap[key] = i
		}
	}

	find := func(aliases []string) int {
		for _, a := range aliases {
			if idx, ok := headerMap[a]; ok {
				return idx
			}
		}
		return -1
	}

	return columnIndices{
		name:         find(m.Name),
		office:       find(m.Office),
		party:        find(m.Party),
		address:      find(m.Address),
		county:       find(m.County),
		electionYear: find(m.ElectionYear),
		electDate:    find(m.ElectionDate),
		phone:        find(m.Phone),
		state:        find(m.State),
	}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
