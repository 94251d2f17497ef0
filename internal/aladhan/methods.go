package aladhan

// Methods names the calculation methods the Aladhan API accepts.
var Methods = map[int]string{
	0:  "Shia Ithna-Ansari",
	1:  "University of Islamic Sciences, Karachi",
	2:  "Islamic Society of North America (ISNA)",
	3:  "Muslim World League",
	4:  "Umm Al-Qura University, Makkah",
	5:  "Egyptian General Authority of Survey",
	7:  "Gulf Region",
	8:  "Kuwait",
	9:  "Qatar",
	10: "Majlis Ugama Islam Singapura",
	11: "Union Organization Islamic de France",
	12: "Diyanet Isleri Baskanligi, Turkey",
	13: "Spiritual Administration of Muslims of Russia",
	14: "Institute of Geophysics, University of Tehran",
	15: "Shia: Leva Research Institute, Qum",
	16: "JAKIM (Malaysia)",
	17: "Tunisia",
	18: "Algeria",
	19: "KEMENAG (Indonesia)",
	20: "Morocco",
	21: "Comunidade Islamica de Lisboa",
	22: "Ministry of Awqaf, Islamic Affairs and Holy Places, Jordan",
}

// ValidMethod reports whether m is a known calculation method.
func ValidMethod(m int) bool {
	_, ok := Methods[m]
	return ok
}

// ValidSchool reports whether s is 0 (Shafi'i) or 1 (Hanafi).
func ValidSchool(s int) bool { return s == 0 || s == 1 }
