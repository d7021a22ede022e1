package domain

func sampleRecords() []Record {
	return []Record{
		{County: "Butte", IncidentName: "Camp", Year: 2018, Damage: Destroyed, Structure: SingleResidence, RoofConstruction: "Asphalt", AssessedValue: 350000},
		{County: "Butte", IncidentName: "Camp", Year: 2018, Damage: Minor, Structure: MultipleResidence, RoofConstruction: "Tile", AssessedValue: 120000},
		{County: "Sonoma", IncidentName: "Tubbs", Year: 2017, Damage: Destroyed, Structure: SingleResidence, RoofConstruction: "Asphalt", AssessedValue: 900000},
		{County: "Napa", IncidentName: "Atlas", Year: 2017, Damage: Affected, Structure: Agriculture, RoofConstruction: "Metal", AssessedValue: 40000},
		{County: "Shasta", IncidentName: "Carr", Year: 2018, Damage: NoDamage, Structure: Infrastructure, RoofConstruction: "Concrete", AssessedValue: 0},
		{County: "Los Angeles", IncidentName: "Woolsey", Year: 2018, Damage: Major, Structure: NonresidentialCommercial, RoofConstruction: "Tile", AssessedValue: 2100000},
		{County: "Lake", IncidentName: "Mendocino Complex", Year: 2020, Damage: Destroyed, Structure: OtherMinorStructure, RoofConstruction: "Wood", AssessedValue: 15000},
	}
}

func sampleDataset() *Dataset {
	return NewDataset(sampleRecords())
}
