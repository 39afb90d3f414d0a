package datasets

// Daphnet is the Daphnet Freezing of Gait dataset: three 3-axis accelerometers
// (ankle, thigh, trunk) in milli-g, one line per sample:
//
//   time ankle_x ankle_y ankle_z thigh_x thigh_y thigh_z trunk_x trunk_y trunk_z annotation
//
// Annotation 0 is outside the experiment, 1 no freeze, 2 freeze.
var Daphnet = Definition{
	Name: "daphnet",
	Files: map[Split][]string{
		Train: {
			"S01R01.txt", "S01R02.txt",
			"S03R01.txt", "S03R02.txt",
			"S06R01.txt", "S06R02.txt",
			"S07R01.txt", "S07R02.txt",
			"S08R01.txt", "S09R01.txt", "S10R01.txt",
		},
		Validation: {
			"S02R02.txt", "S03R03.txt", "S05R01.txt",
		},
		Test: {
			"S02R01.txt", "S04R01.txt", "S05R02.txt",
		},
	},
	Labels: []Label{
		{Code: 1, Name: "No freeze"},
		{Code: 2, Name: "Freeze"},
	},
	Columns:     []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	LabelColumn: 10,
	Sentinel:    "0",
	Missing:     "NaN",
	Scale:       1000,
}
