package indicator

// Default returns the authoritative registry for the 2022 index edition.
// It mirrors the external indicators.json shipped with the data package;
// Load replaces it when a registry file is configured.
//
// Dimension keys: e* climate exposure (external layers), v* social
// vulnerability, p* priority groups, g* municipal governance.
func Default() *Registry {
	r, err := New([]Indicator{
		// Climate exposure layers arrive precomputed from the hazard team.
		{Key: "e1", Column: "e1_des_norm", Dimension: "exposicao_climatica", Kind: KindExternal, Source: "external", Output: "br_h3_deslizamentos.parquet"},
		{Key: "e2", Column: "e2_inu_norm", Dimension: "exposicao_climatica", Kind: KindExternal, Source: "external", Output: "br_h3_inundacoes.parquet"},
		{Key: "e3", Column: "e3_cos_norm", Dimension: "exposicao_climatica", Kind: KindExternal, Source: "external", Output: "br_h3_vulnerabilidade_costeira.parquet"},
		{Key: "e4", Column: "e4_cal_norm", Dimension: "exposicao_climatica", Kind: KindExternal, Source: "external", Output: "br_h3_calor.parquet"},
		{Key: "e5", Column: "e5_que_norm", Dimension: "exposicao_climatica", Kind: KindExternal, Source: "external", Output: "br_h3_queimadas.parquet"},

		// Income: average income of responsibles times responsible count gives
		// the tract's absolute income volume; higher income lowers
		// vulnerability, so the scale is not inverted.
		{Key: "v1", Column: "v1_ren_norm", Dimension: "vulnerabilidade", Kind: KindRatio, Source: "censo",
			NumVars: []string{"v06004_v06001"}, DenVars: []string{"v06001"}, Invert: false, Output: "br_h3_renda.parquet"},
		// Households without an exclusive bathroom.
		{Key: "v2", Column: "v2_mor_norm", Dimension: "vulnerabilidade", Kind: KindRatio, Source: "censo",
			NumVars: []string{"v00238"}, DenVars: []string{"v00001"}, Invert: true, Output: "br_h3_moradia.parquet"},
		// Urban infrastructure layer is produced by the sanitation team.
		{Key: "v3", Column: "v3_inf_norm", Dimension: "vulnerabilidade", Kind: KindExternal, Source: "external", Output: "br_h3_infraestrutura.parquet"},
		// Illiteracy: three age-band counts over the 15+ population.
		{Key: "v4", Column: "v4_edu_norm", Dimension: "vulnerabilidade", Kind: KindRatio, Source: "censo",
			NumVars: []string{"v00853", "v00855", "v00857"}, DenVars: []string{"v01006"}, Invert: true, Output: "br_h3_educacao.parquet"},
		// Healthcare accessibility via the gravitational model.
		{Key: "v5", Column: "v5_sau_norm", Dimension: "vulnerabilidade", Kind: KindGravity, Source: "cnes", Output: "br_h3_acessibilidade_saude.parquet"},

		{Key: "p1", Column: "p1_gen_norm", Dimension: "grupos_prioritarios", Kind: KindRatio, Source: "censo",
			NumVars: []string{"v01063"}, DenVars: []string{"v01042"}, Invert: true, Output: "br_h3_genero.parquet"},
		{Key: "p2", Column: "p2_cri_norm", Dimension: "grupos_prioritarios", Kind: KindRatio, Source: "censo",
			NumVars: []string{"v01031"}, DenVars: []string{"v01006"}, Invert: true, Output: "br_h3_criancas.parquet"},
		{Key: "p3", Column: "p3_ido_norm", Dimension: "grupos_prioritarios", Kind: KindRatio, Source: "censo",
			NumVars: []string{"v01040", "v01041"}, DenVars: []string{"v01006"}, Invert: true, Output: "br_h3_idosos.parquet"},
		{Key: "p4", Column: "p4_pre_norm", Dimension: "grupos_prioritarios", Kind: KindRatio, Source: "censo",
			NumVars: []string{"v01318", "v01320"}, DenVars: []string{"v01006"}, Invert: true, Output: "br_h3_pretos_pardos.parquet"},
		{Key: "p5", Column: "p5_ind_norm", Dimension: "grupos_prioritarios", Kind: KindRatio, Source: "censo",
			NumVars: []string{"v01500", "v03000"}, DenVars: []string{"v00001"}, Invert: true, Output: "br_h3_indigenas_quilombolas.parquet"},

		// Environmental-management expense per capita, 2015-2024 sum.
		{Key: "g1", Column: "g1_inv_norm", Dimension: "gestao_municipal", Kind: KindDirect, Source: "siconfi", Output: "br_h3_investimento_ambiental.parquet"},
		// Civil-defense unit (NUPDEC) in place.
		{Key: "g2", Column: "g2_par_norm", Dimension: "gestao_municipal", Kind: KindBoolean, Source: "munic",
			SourceFile: "2020/munic_2020_gestao-de-riscos.csv", NumVars: []string{"mgrd213"}, Output: "br_h3_participacao.parquet"},
		// Early-warning system operated by the municipality.
		{Key: "g3", Column: "g3_res_norm", Dimension: "gestao_municipal", Kind: KindBoolean, Source: "munic",
			SourceFile: "2023_saneamento/munic_2023_saneamento_drenagem.csv", NumVars: []string{"smap126"}, Output: "br_h3_resposta.parquet"},
		// Flood-risk mapping of the urban area.
		{Key: "g4", Column: "g4_rec_norm", Dimension: "gestao_municipal", Kind: KindBoolean, Source: "munic",
			SourceFile: "2023_saneamento/munic_2023_saneamento_drenagem.csv", NumVars: []string{"smap122"}, Output: "br_h3_recuperacao.parquet"},
		// Human-rights policy count (21 survey answers summed).
		{Key: "g5", Column: "g5_ass_norm", Dimension: "gestao_municipal", Kind: KindDirect, Source: "munic",
			SourceFile: "2023/munic_2023_direitos-humanos.csv",
			NumVars: []string{
				"mdhu571", "mdhu572", "mdhu573", "mdhu574", "mdhu575", "mdhu576",
				"mdhu577", "mdhu578", "mdhu579", "mdhu5710", "mdhu5711", "mdhu5712",
				"mdhu5713", "mdhu5714", "mdhu5715", "mdhu5716", "mdhu58", "mdhu61",
				"mdhu64", "mdhu67", "mdhu69",
			},
			Output: "br_h3_assistencia.parquet"},
	})
	if err != nil {
		panic(err) // the built-in registry is validated by tests
	}
	return r
}
