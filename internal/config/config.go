// Package config loads sandhi-gen settings from a YAML file and SANDHI_*
// environment variables.
package config

// Config is the root sandhi-gen configuration.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Translit TranslitConfig `yaml:"translit"`
	Log      LogConfig      `yaml:"log"`
}

// InputConfig describes where corpus files are found.
type InputConfig struct {
	Dir        string   `yaml:"dir"        env:"SANDHI_INPUT"      env-default:"dcs"`
	Extensions []string `yaml:"extensions" env:"SANDHI_EXTENSIONS" env-default:".conllu"`
}

// OutputConfig describes the output artifact and the optional run report.
type OutputConfig struct {
	Path     string `yaml:"path"     env:"SANDHI_OUTPUT"   env-default:"sandhi_data.csv"`
	Format   string `yaml:"format"   env:"SANDHI_FORMAT"   env-default:"csv"`
	Report   string `yaml:"report"   env:"SANDHI_REPORT"`
	Progress bool   `yaml:"progress" env:"SANDHI_PROGRESS"`
	Strict   bool   `yaml:"strict"   env:"SANDHI_STRICT"`
}

// TranslitConfig selects the source and target scripts.
type TranslitConfig struct {
	From string `yaml:"from" env:"SANDHI_FROM" env-default:"iast"`
	To   string `yaml:"to"   env:"SANDHI_TO"   env-default:"devanagari"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"SANDHI_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"SANDHI_LOG_FORMAT" env-default:"text"`
}
