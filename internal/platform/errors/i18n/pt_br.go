package i18n

var ptBRCatalog = &Catalog{
	locale: "pt-BR",
	messages: map[Code]string{
		CodeUnknown:          "Ocorreu um erro inesperado",
		CodeMalformedRequest: "O corpo da requisição não pôde ser interpretado",

		// Campaign validation errors
		CodeCampaignProposerMissing:  "O proponente da campanha é obrigatório",
		CodeCampaignTitleEmpty:       "O título da campanha não pode ser vazio",
		CodeCampaignDescriptionEmpty: "A descrição da campanha não pode ser vazia",
		CodeCampaignGoalNotPositive:  "A meta da campanha deve ser maior que zero",

		// Donation errors
		CodeDonationAmountNotPositive: "O valor da doação deve ser maior que zero",
		CodeCampaignEnded:             "A campanha {{.CampaignID}} já foi encerrada",
		CodeCampaignGoalExceeded:      "A doação de {{.Amount}} ultrapassaria a meta da campanha de {{.Goal}}",

		// Identity errors
		CodeIdentityTokenInvalid: "O token de acesso é inválido",
		CodeIdentityTokenExpired: "O token de acesso expirou",

		// Storage errors
		CodeNotFound:       "A campanha solicitada não foi encontrada",
		CodeRecordTooLarge: "O registro de tamanho {{.Size}} excede o limite de armazenamento",
		CodeStorageFailure: "A operação falhou devido a um erro de armazenamento",
	},
}
