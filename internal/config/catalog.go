package config

// GetSystemRolesPath returns the YAML file holding role personas
func GetSystemRolesPath() string {
	return GetEnvOrDefault("SYSTEM_ROLES", "./config/system_roles.yaml")
}

// GetAssistantInstructionsPath returns the YAML file holding assistant instructions
func GetAssistantInstructionsPath() string {
	return GetEnvOrDefault("ASSISTANT_INSTRUCTIONS", "./config/assistant_instructions.yaml")
}
