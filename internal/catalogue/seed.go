package catalogue

// SeedVersion is the version of the built-in knowledge base.
const SeedVersion = "v1.0.0"

// seedRules is the built-in rule catalogue, in evaluation order.
var seedRules = []Rule{
	{
		ID:      "R1",
		Disease: "Oídio",
		Symptoms: []WeightedSymptom{
			{Key: "manchas_hojas", Weight: 0.7},
			{Key: "polvo_blanco", Weight: 0.8},
			{Key: "hojas_amarillas", Weight: 0.5},
		},
		Icon: "🦠",
	},
	{
		ID:      "R2",
		Disease: "Áfidos",
		Symptoms: []WeightedSymptom{
			{Key: "hojas_enrolladas", Weight: 0.6},
			{Key: "plagas", Weight: 0.7},
			{Key: "hojas_agujeros", Weight: 0.5},
		},
		Icon: "🐛",
	},
	{
		ID:      "R3",
		Disease: "Cancro bacteriano",
		Symptoms: []WeightedSymptom{
			{Key: "ramas_secas", Weight: 0.8},
			{Key: "corteza_rajada", Weight: 0.7},
			{Key: "muerte_planta", Weight: 0.9},
		},
		Icon: "🦠",
	},
	{
		ID:      "R4",
		Disease: "Monilia",
		Symptoms: []WeightedSymptom{
			{Key: "frutos_podridos", Weight: 0.7},
			{Key: "olor_raro", Weight: 0.6},
			{Key: "hongos_visibles", Weight: 0.8},
		},
		Icon: "🍑",
	},
	{
		ID:      "R5",
		Disease: "Deficiencia nutricional",
		Symptoms: []WeightedSymptom{
			{Key: "crecimiento_lento", Weight: 0.5},
			{Key: "hojas_amarillas", Weight: 0.4},
			{Key: "caida_frutos", Weight: 0.6},
		},
		Icon: "🌱",
	},
}

// seedSymptoms lists every checklist symptom in display order.
var seedSymptoms = []SymptomInfo{
	{
		Key:         "manchas_hojas",
		Label:       "Manchas en las hojas",
		Description: "Presencia de manchas circulares o irregulares en las hojas",
		Treatment:   "Fungicidas con: Clorotalonil, Mancozeb, o Fungicidas a base de Cobre",
	},
	{
		Key:         "polvo_blanco",
		Label:       "Polvo blanco en hojas/tallos",
		Description: "Aspecto de polvo o ceniza blanca sobre la superficie de la planta",
		Treatment:   "Fungicidas con: Azufre (polvo mojable), Azoxystrobin o Miclobutanil",
	},
	{
		Key:         "hojas_amarillas",
		Label:       "Amarillamiento de hojas",
		Description: "Hojas que pierden su color verde y se vuelven amarillas",
		Treatment:   "Fertilizantes: Aplicación de un fertilizante balanceado (NPK)",
	},
	{
		Key:         "hojas_enrolladas",
		Label:       "Hojas enrolladas o deformadas",
		Description: "Hojas que se curvan, enrollan o presentan deformaciones",
		Treatment:   "Fungicidas a base de Cobre o Clorotalonil o Captan durante el ciclo",
	},
	{
		Key:         "plagas",
		Label:       "Presencia de insectos visibles",
		Description: "Observación de pequeños insectos en hojas o tallos",
		Treatment:   "Insecticidas de amplio espectro: Piretrinas/Piretroides",
	},
	{
		Key:         "hojas_agujeros",
		Label:       "Agujeros en las hojas",
		Description: "Hojas con perforaciones o mordeduras visibles",
		Treatment:   "Piretrinas/Piretroides, o Bacillus thuringiensis",
	},
	{
		Key:         "ramas_secas",
		Label:       "Ramas secas o marchitas",
		Description: "Ramas que pierden vitalidad y se secan prematuramente",
		Treatment:   "Captan",
	},
	{
		Key:         "corteza_rajada",
		Label:       "Corteza agrietada o exudados",
		Description: "Grietas en la corteza o secreción de goma/resina",
		Treatment:   "Oxicloruro de Cobre",
	},
	{
		Key:         "muerte_planta",
		Label:       "Muerte de partes de la planta",
		Description: "Partes de la planta que mueren repentinamente",
		Treatment:   "Tebuconazol",
	},
	{
		Key:         "frutos_podridos",
		Label:       "Podredumbre en frutos",
		Description: "Frutos con manchas, moho o descomposición",
		Treatment:   "Boscalid + Pyraclostrobin, Tebuconazol, o Captan",
	},
	{
		Key:         "olor_raro",
		Label:       "Olor desagradable",
		Description: "Olores anormales provenientes de la planta o frutos",
		Treatment:   "Tebuconazol, Captan",
	},
	{
		Key:         "hongos_visibles",
		Label:       "Hongos visibles",
		Description: "Presencia de estructuras fúngicas en la planta",
		Treatment:   "Clorotalonil, Mancozeb",
	},
	{
		Key:         "crecimiento_lento",
		Label:       "Crecimiento atrofiado",
		Description: "Desarrollo más lento de lo normal en la planta",
		Treatment:   "Fertilizante balanceado",
	},
	{
		Key:         "caida_frutos",
		Label:       "Caída prematura de frutos",
		Description: "Frutos que caen antes de madurar completamente",
		Treatment:   "Fertilizante foliar o al suelo",
	},
}

var seedDiseases = []DiseaseInfo{
	{Name: "Oídio", Recommendation: "Fungicidas con: Azufre, Miclobutanil o Trifloxistrobin"},
	{Name: "Áfidos", Recommendation: "Insecticidas sistémicos como Imidacloprid o aceites hortícolas"},
	{Name: "Cancro bacteriano", Recommendation: "Eliminación de ramas afectadas, bactericidas como cobre"},
	{Name: "Monilia", Recommendation: "Fungicidas como Tebuconazol, Boscalid + Pyraclostrobin"},
	{Name: "Deficiencia nutricional", Recommendation: "Aplicar fertilizantes NPK y análisis de suelo"},
}
