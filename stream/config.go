package stream

// Config is the application configuration read from YAML.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientId"`
		Qos      byte   `yaml:"qos"`
		Topics   struct {
			Stream string `yaml:"stream"`
			Audio  string `yaml:"audio"`
		}
	} `yaml:"mqtt"`
	Http struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Player struct {
		Document  string  `yaml:"document"`
		AudioRoot string  `yaml:"audioRoot"`
		FPS       float64 `yaml:"fps"`
		Autoplay  bool    `yaml:"autoplay"`
		LogLevel  string  `yaml:"logLevel"`
		Snapshot  struct {
			Width  int `yaml:"width"`
			Height int `yaml:"height"`
		} `yaml:"snapshot"`
	} `yaml:"player"`
}
