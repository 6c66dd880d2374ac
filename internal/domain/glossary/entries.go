package glossary

// Context tags.
const (
	ContextGeneral             = "geral"
	ContextLegal               = "jurídico"
	ContextAdministrative      = "administrativo"
	ContextLegalTechnical      = "jurídico-técnico"
	ContextLegalAdministrative = "jurídico-administrativo"
)

const lei8112 = "Lei 8.112/1990"

var defaultEntries = []Entry{
	{
		Term:        "ART",
		Expansion:   "Anotação de Responsabilidade Técnica",
		Context:     ContextLegalTechnical,
		Description: "Documento que registra a responsabilidade técnica de profissionais habilitados em obras e serviços de engenharia",
		Legislation: []string{"Lei 6.496/1977", "Resolução CONFEA 1.025/2009"},
		Variants:    []string{"ART", "art", "Anotação de Responsabilidade Técnica"},
	},
	{
		Term:        "RRT",
		Expansion:   "Registro de Responsabilidade Técnica",
		Context:     ContextLegalTechnical,
		Description: "Registro que documenta a responsabilidade técnica de profissionais habilitados",
		Legislation: []string{"Lei 6.496/1977", "Resolução CONFEA 1.025/2009"},
		Variants:    []string{"RRT", "rrt", "Registro de Responsabilidade Técnica"},
	},
	{
		Term:        "DNIT",
		Expansion:   "Departamento Nacional de Infraestrutura de Transportes",
		Context:     ContextAdministrative,
		Description: "Órgão responsável pela infraestrutura de transportes no Brasil",
		Variants:    []string{"DNIT", "dnit", "Departamento Nacional de Infraestrutura de Transportes"},
	},
	{
		Term:        "CREA",
		Expansion:   "Conselho Regional de Engenharia e Agronomia",
		Context:     ContextLegalTechnical,
		Description: "Conselho responsável pela fiscalização do exercício profissional",
		Legislation: []string{"Lei 5.194/1966"},
		Variants:    []string{"CREA", "crea", "Conselho Regional de Engenharia e Agronomia"},
	},
	{
		Term:        "CAU",
		Expansion:   "Conselho de Arquitetura e Urbanismo",
		Context:     ContextLegalTechnical,
		Description: "Conselho responsável pela fiscalização da arquitetura e urbanismo",
		Variants:    []string{"CAU", "cau", "Conselho de Arquitetura e Urbanismo"},
	},
	{
		Term:        "CONFEA",
		Expansion:   "Conselho Federal de Engenharia e Agronomia",
		Context:     ContextLegalTechnical,
		Description: "Conselho federal responsável pela regulamentação da profissão",
		Legislation: []string{"Lei 5.194/1966"},
		Variants:    []string{"CONFEA", "confea", "Conselho Federal de Engenharia e Agronomia"},
	},
	{
		Term:        "AGU",
		Expansion:   "Advocacia-Geral da União",
		Context:     ContextLegal,
		Description: "Órgão responsável pela representação judicial da União",
		Variants:    []string{"AGU", "agu", "Advocacia-Geral da União"},
	},
	{
		Term:        "STF",
		Expansion:   "Supremo Tribunal Federal",
		Context:     ContextLegal,
		Description: "Corte constitucional máxima do Brasil",
		Variants:    []string{"STF", "stf", "Supremo Tribunal Federal"},
	},
	{
		Term:        "TCU",
		Expansion:   "Tribunal de Contas da União",
		Context:     ContextLegalAdministrative,
		Description: "Tribunal responsável pelo controle externo da administração pública",
		Variants:    []string{"TCU", "tcu", "Tribunal de Contas da União"},
	},
	{
		Term:        "TRF",
		Expansion:   "Tribunal Regional Federal",
		Context:     ContextLegal,
		Description: "Tribunal federal de segunda instância",
		Variants:    []string{"TRF", "trf", "Tribunal Regional Federal"},
	},
	{
		Term:        "DAS",
		Expansion:   "Cargo em Comissão de Direção e Assessoramento Superior",
		Context:     ContextAdministrative,
		Description: "Cargo de direção e assessoramento superior na administração pública",
		Legislation: []string{lei8112},
		Variants:    []string{"DAS", "das", "Cargo em Comissão de Direção e Assessoramento Superior"},
	},
	{
		Term:        "vacância",
		Expansion:   "vacância de cargo público",
		Context:     ContextLegalAdministrative,
		Description: "Situação de cargo público que está sem ocupante",
		Legislation: []string{lei8112},
		Variants:    []string{"vacância", "vacancia", "vacância de cargo público"},
	},
	{
		Term:        "inacumulável",
		Expansion:   "incompatibilidade de cargos públicos",
		Context:     ContextLegalAdministrative,
		Description: "Situação em que não é permitida a acumulação de cargos públicos",
		Legislation: []string{"Constituição Federal", lei8112},
		Variants:    []string{"inacumulável", "inacumulavel", "incompatibilidade de cargos públicos"},
	},
	{
		Term:        "estágio probatório",
		Expansion:   "período de estágio probatório",
		Context:     ContextLegalAdministrative,
		Description: "Período de avaliação para servidores públicos",
		Legislation: []string{lei8112},
		Variants:    []string{"estágio probatório", "estagio probatorio", "período de estágio probatório"},
	},
	{
		Term:        "recondução",
		Expansion:   "recondução a cargo público",
		Context:     ContextLegalAdministrative,
		Description: "Renovação de nomeação para cargo público",
		Legislation: []string{lei8112},
		Variants:    []string{"recondução", "reconducao", "recondução a cargo público"},
	},
	{
		Term:        "substituição",
		Expansion:   "substituição de servidor público",
		Context:     ContextLegalAdministrative,
		Description: "Processo de substituição de servidor público",
		Legislation: []string{lei8112},
		Variants:    []string{"substituição", "substituicao", "substituição de servidor público"},
	},
	{
		Term:        "Lei 8112",
		Expansion:   "Lei 8.112/1990 - Estatuto dos Servidores Públicos",
		Context:     ContextLegalAdministrative,
		Description: "Lei que regula o regime jurídico dos servidores públicos",
		Variants:    []string{"Lei 8112", "Lei 8.112", "Lei 8.112/1990", "Estatuto dos Servidores Públicos"},
	},
	{
		Term:        "Lei 6496",
		Expansion:   "Lei 6.496/1977 - Lei da ART",
		Context:     ContextLegalTechnical,
		Description: "Lei que regulamenta a Anotação de Responsabilidade Técnica",
		Variants:    []string{"Lei 6496", "Lei 6.496", "Lei 6.496/1977", "Lei da ART"},
	},
	{
		Term:        "Lei 5194",
		Expansion:   "Lei 5.194/1966 - Lei do Engenheiro",
		Context:     ContextLegalTechnical,
		Description: "Lei que regulamenta o exercício da profissão de engenheiro",
		Variants:    []string{"Lei 5194", "Lei 5.194", "Lei 5.194/1966", "Lei do Engenheiro"},
	},
	{
		Term:        "Lei 14133",
		Expansion:   "Lei 14.133/2021 - Nova Lei de Licitações",
		Context:     ContextLegalAdministrative,
		Description: "Lei que regulamenta licitações e contratos administrativos",
		Variants:    []string{"Lei 14133", "Lei 14.133", "Lei 14.133/2021", "Nova Lei de Licitações"},
	},
	{
		Term:        "Lei 8666",
		Expansion:   "Lei 8.666/1993 - Lei de Licitações",
		Context:     ContextLegalAdministrative,
		Description: "Lei que regulamenta licitações e contratos administrativos",
		Variants:    []string{"Lei 8666", "Lei 8.666", "Lei 8.666/1993", "Lei de Licitações"},
	},
	{
		Term:        "Decreto 9507",
		Expansion:   "Decreto 9.507/2018 - Terceirização",
		Context:     ContextLegalAdministrative,
		Description: "Decreto que regulamenta a terceirização na administração pública",
		Variants:    []string{"Decreto 9507", "Decreto 9.507", "Decreto 9.507/2018", "Terceirização"},
	},
	{
		Term:        "Resolução 1025",
		Expansion:   "Resolução CONFEA 1.025/2009",
		Context:     ContextLegalTechnical,
		Description: "Resolução que regulamenta a ART e RRT",
		Variants:    []string{"Resolução 1025", "Resolução 1.025", "Resolução CONFEA 1.025/2009"},
	},
	{
		Term:        "Resolução 218",
		Expansion:   "Resolução CONFEA 218/1973",
		Context:     ContextLegalTechnical,
		Description: "Resolução que regulamenta atividades técnicas",
		Variants:    []string{"Resolução 218", "Resolução 218/73", "Resolução CONFEA 218/1973"},
	},
}
