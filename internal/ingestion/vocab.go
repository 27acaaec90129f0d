package ingestion

// DefaultSkillVocabulary is the built-in list of technology keywords scanned
// for when no vocabulary is configured. All entries are lowercase; variant
// spellings are listed separately so each form matches literally.
var DefaultSkillVocabulary = []string{
	// Languages
	"python", "java", "javascript", "typescript", "c++", "c#", "go", "golang",
	"rust", "ruby", "php", "swift", "kotlin", "scala", "r", "matlab", "perl",
	"shell", "bash", "powershell", "dart", "elixir", "haskell", "lua",

	// Frontend
	"html", "css", "sass", "tailwind", "tailwindcss", "bootstrap",
	"react", "react.js", "reactjs", "angular", "vue", "vue.js", "vuejs",
	"svelte", "next.js", "nextjs", "nuxt", "gatsby", "jquery", "webpack", "vite",

	// Backend frameworks
	"node.js", "nodejs", "express", "express.js", "fastapi", "flask", "django",
	"spring", "spring boot", "rails", "ruby on rails", "laravel", "asp.net",
	".net", "dotnet", "gin", "echo", "fiber", "nestjs", "phoenix", "actix",

	// Cloud and infrastructure
	"aws", "amazon web services", "azure", "gcp", "google cloud", "heroku",
	"vercel", "netlify", "digitalocean", "cloudflare", "firebase", "supabase",
	"lambda", "aws lambda",

	// DevOps
	"docker", "kubernetes", "k8s", "terraform", "ansible", "jenkins",
	"github actions", "gitlab ci", "circleci", "helm", "prometheus", "grafana",
	"nginx", "apache",

	// Databases
	"postgresql", "postgres", "mysql", "mariadb", "mongodb", "redis",
	"elasticsearch", "cassandra", "dynamodb", "sqlite", "oracle", "neo4j",
	"prisma", "sqlalchemy",

	// Data and ML
	"tensorflow", "pytorch", "keras", "scikit-learn", "sklearn", "pandas",
	"numpy", "spark", "pyspark", "hadoop", "airflow", "opencv", "huggingface",
	"transformers", "langchain", "openai", "llm", "rag", "jupyter",
	"machine learning", "deep learning", "data science",

	// APIs and architecture
	"graphql", "rest", "restful", "grpc", "websocket", "microservices",
	"serverless", "oauth", "jwt", "swagger", "openapi",

	// Mobile
	"react native", "flutter", "swiftui", "android", "ios",

	// Testing
	"jest", "mocha", "pytest", "junit", "cypress", "playwright", "selenium",

	// Messaging and tooling
	"kafka", "rabbitmq", "git", "linux", "agile", "scrum", "ci/cd",
}

// jobTitles are recognized position names, scanned lowercase. Longer titles
// are listed before their substrings so the most specific form wins.
var jobTitles = []string{
	"senior software engineer", "staff software engineer", "principal engineer",
	"staff engineer", "software engineer", "site reliability engineer",
	"machine learning engineer", "ml engineer", "ai engineer", "data engineer",
	"devops engineer", "cloud engineer", "platform engineer", "security engineer",
	"frontend developer", "backend developer", "full stack developer",
	"fullstack developer", "frontend engineer", "backend engineer",
	"mobile developer", "ios developer", "android developer",
	"data scientist", "data analyst", "cloud architect", "solution architect",
	"systems architect", "software architect", "engineering manager",
	"technical lead", "tech lead", "product manager", "project manager",
	"vp of engineering", "director of engineering", "head of engineering",
	"qa engineer", "test engineer", "automation engineer",
	"ux designer", "ui designer", "product designer",
	"database administrator", "system administrator", "network engineer",
	"software intern", "intern", "developer", "programmer", "consultant",
	"architect", "analyst", "cto", "ceo", "cfo",
}
