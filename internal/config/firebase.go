package config

type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

func loadFirebaseConfig(src source) *FirebaseConfig {
	return &FirebaseConfig{
		ProjectID:       src.getString("FIREBASE_PROJECT_ID", ""),
		CredentialsFile: src.getString("FIREBASE_CREDENTIALS_FILE", ""),
	}
}
