package keywords

import (
	"strings"

	"atscheck/internal/textnorm"
)

// Kind classifies a lexicon term.
type Kind string

const (
	KindLanguage      Kind = "language"
	KindFramework     Kind = "framework"
	KindPlatform      Kind = "platform"
	KindDatabase      Kind = "database"
	KindTool          Kind = "tool"
	KindPractice      Kind = "practice"
	KindCertification Kind = "certification"
)

// Term is a known skill, tool or credential. Aliases normalise to the same
// term, so "k8s" and "Kubernetes" are one keyword. ExactCase terms are common
// English words ("Go", "Spark") that only count when written with the
// canonical capitalisation.
type Term struct {
	Name      string
	Kind      Kind
	Aliases   []string
	ExactCase bool
}

// IsTechnology reports whether the term names a concrete technology or tool.
func (t Term) IsTechnology() bool {
	switch t.Kind {
	case KindLanguage, KindFramework, KindPlatform, KindDatabase, KindTool:
		return true
	}
	return false
}

var lexicon = []Term{
	// languages
	{Name: "Python", Kind: KindLanguage},
	{Name: "Java", Kind: KindLanguage},
	{Name: "JavaScript", Kind: KindLanguage, Aliases: []string{"js", "ecmascript"}},
	{Name: "TypeScript", Kind: KindLanguage},
	{Name: "Go", Kind: KindLanguage, Aliases: []string{"golang"}, ExactCase: true},
	{Name: "C", Kind: KindLanguage, ExactCase: true},
	{Name: "C++", Kind: KindLanguage, Aliases: []string{"cpp"}},
	{Name: "C#", Kind: KindLanguage, Aliases: []string{"csharp"}},
	{Name: "Ruby", Kind: KindLanguage},
	{Name: "Rust", Kind: KindLanguage, ExactCase: true},
	{Name: "PHP", Kind: KindLanguage},
	{Name: "Scala", Kind: KindLanguage},
	{Name: "Kotlin", Kind: KindLanguage},
	{Name: "Swift", Kind: KindLanguage, ExactCase: true},
	{Name: "Objective-C", Kind: KindLanguage},
	{Name: "Perl", Kind: KindLanguage},
	{Name: "Haskell", Kind: KindLanguage},
	{Name: "Elixir", Kind: KindLanguage},
	{Name: "Erlang", Kind: KindLanguage},
	{Name: "Clojure", Kind: KindLanguage},
	{Name: "Dart", Kind: KindLanguage, ExactCase: true},
	{Name: "Lua", Kind: KindLanguage},
	{Name: "MATLAB", Kind: KindLanguage},
	{Name: "SQL", Kind: KindLanguage},
	{Name: "NoSQL", Kind: KindDatabase},
	{Name: "Bash", Kind: KindLanguage},
	{Name: "PowerShell", Kind: KindLanguage},
	{Name: "HTML", Kind: KindLanguage, Aliases: []string{"html5"}},
	{Name: "CSS", Kind: KindLanguage, Aliases: []string{"css3"}},
	{Name: "Sass", Kind: KindLanguage, Aliases: []string{"scss"}},
	{Name: "COBOL", Kind: KindLanguage},
	{Name: "Solidity", Kind: KindLanguage},
	{Name: "Groovy", Kind: KindLanguage},
	{Name: "VBA", Kind: KindLanguage},

	// frameworks and libraries
	{Name: "React", Kind: KindFramework, Aliases: []string{"react.js", "reactjs"}},
	{Name: "React Native", Kind: KindFramework},
	{Name: "Angular", Kind: KindFramework, Aliases: []string{"angularjs"}},
	{Name: "Vue", Kind: KindFramework, Aliases: []string{"vue.js", "vuejs"}},
	{Name: "Svelte", Kind: KindFramework},
	{Name: "Next.js", Kind: KindFramework, Aliases: []string{"nextjs"}},
	{Name: "Node.js", Kind: KindFramework, Aliases: []string{"nodejs", "node"}},
	{Name: "Express", Kind: KindFramework, Aliases: []string{"express.js"}, ExactCase: true},
	{Name: "Django", Kind: KindFramework},
	{Name: "Flask", Kind: KindFramework},
	{Name: "FastAPI", Kind: KindFramework},
	{Name: "Spring", Kind: KindFramework, ExactCase: true},
	{Name: "Spring Boot", Kind: KindFramework},
	{Name: "Ruby on Rails", Kind: KindFramework, Aliases: []string{"rails"}},
	{Name: "Laravel", Kind: KindFramework},
	{Name: ".NET", Kind: KindFramework, Aliases: []string{"dotnet", ".net core"}},
	{Name: "ASP.NET", Kind: KindFramework},
	{Name: "jQuery", Kind: KindFramework},
	{Name: "Redux", Kind: KindFramework},
	{Name: "GraphQL", Kind: KindFramework},
	{Name: "gRPC", Kind: KindFramework},
	{Name: "REST", Kind: KindPractice, Aliases: []string{"restful", "rest api", "rest apis"}, ExactCase: true},
	{Name: "TensorFlow", Kind: KindFramework},
	{Name: "PyTorch", Kind: KindFramework},
	{Name: "Keras", Kind: KindFramework},
	{Name: "scikit-learn", Kind: KindFramework, Aliases: []string{"sklearn"}},
	{Name: "Pandas", Kind: KindFramework},
	{Name: "NumPy", Kind: KindFramework},
	{Name: "Spark", Kind: KindFramework, Aliases: []string{"apache spark", "pyspark"}, ExactCase: true},
	{Name: "Hadoop", Kind: KindFramework},
	{Name: "Kafka", Kind: KindPlatform, Aliases: []string{"apache kafka"}},
	{Name: "Airflow", Kind: KindTool, Aliases: []string{"apache airflow"}},
	{Name: "dbt", Kind: KindTool},
	{Name: "Tailwind", Kind: KindFramework, Aliases: []string{"tailwind css", "tailwindcss"}},
	{Name: "Flutter", Kind: KindFramework},
	{Name: "Hibernate", Kind: KindFramework},
	{Name: "LangChain", Kind: KindFramework},
	{Name: "Selenium", Kind: KindTool},
	{Name: "Cypress", Kind: KindTool},
	{Name: "Jest", Kind: KindTool},
	{Name: "JUnit", Kind: KindTool},
	{Name: "pytest", Kind: KindTool},
	{Name: "Playwright", Kind: KindTool},
	{Name: "Unity", Kind: KindPlatform, ExactCase: true},

	// cloud, infrastructure, platforms
	{Name: "AWS", Kind: KindPlatform, Aliases: []string{"amazon web services"}},
	{Name: "Azure", Kind: KindPlatform, Aliases: []string{"microsoft azure"}},
	{Name: "GCP", Kind: KindPlatform, Aliases: []string{"google cloud", "google cloud platform"}},
	{Name: "Kubernetes", Kind: KindPlatform, Aliases: []string{"k8s"}},
	{Name: "Docker", Kind: KindTool},
	{Name: "Terraform", Kind: KindTool},
	{Name: "Ansible", Kind: KindTool},
	{Name: "Jenkins", Kind: KindTool},
	{Name: "GitHub Actions", Kind: KindTool},
	{Name: "GitLab CI", Kind: KindTool},
	{Name: "CircleCI", Kind: KindTool},
	{Name: "Linux", Kind: KindPlatform},
	{Name: "Unix", Kind: KindPlatform},
	{Name: "Lambda", Kind: KindPlatform, Aliases: []string{"aws lambda"}, ExactCase: true},
	{Name: "EC2", Kind: KindPlatform},
	{Name: "S3", Kind: KindPlatform},
	{Name: "CloudFormation", Kind: KindTool},
	{Name: "Helm", Kind: KindTool, ExactCase: true},
	{Name: "OpenShift", Kind: KindPlatform},
	{Name: "Heroku", Kind: KindPlatform},
	{Name: "Prometheus", Kind: KindTool},
	{Name: "Grafana", Kind: KindTool},
	{Name: "Datadog", Kind: KindTool},
	{Name: "Splunk", Kind: KindTool},
	{Name: "Elasticsearch", Kind: KindDatabase, Aliases: []string{"elastic search"}},
	{Name: "Nginx", Kind: KindTool},
	{Name: "Istio", Kind: KindTool},
	{Name: "Salesforce", Kind: KindPlatform},
	{Name: "SAP", Kind: KindPlatform},
	{Name: "ServiceNow", Kind: KindPlatform},
	{Name: "Workday", Kind: KindPlatform},
	{Name: "Snowflake", Kind: KindDatabase},
	{Name: "Databricks", Kind: KindPlatform},
	{Name: "BigQuery", Kind: KindDatabase},
	{Name: "Redshift", Kind: KindDatabase},
	{Name: "Tableau", Kind: KindTool},
	{Name: "Power BI", Kind: KindTool, Aliases: []string{"powerbi"}},
	{Name: "Looker", Kind: KindTool},
	{Name: "Excel", Kind: KindTool, Aliases: []string{"microsoft excel"}, ExactCase: true},
	{Name: "Jira", Kind: KindTool},
	{Name: "Confluence", Kind: KindTool},
	{Name: "Git", Kind: KindTool},
	{Name: "GitHub", Kind: KindTool},
	{Name: "GitLab", Kind: KindTool},
	{Name: "Bitbucket", Kind: KindTool},
	{Name: "Figma", Kind: KindTool},
	{Name: "Photoshop", Kind: KindTool, Aliases: []string{"adobe photoshop"}},
	{Name: "Illustrator", Kind: KindTool, Aliases: []string{"adobe illustrator"}},
	{Name: "HubSpot", Kind: KindTool},
	{Name: "Google Analytics", Kind: KindTool},
	{Name: "SharePoint", Kind: KindTool},

	// databases
	{Name: "PostgreSQL", Kind: KindDatabase, Aliases: []string{"postgres"}},
	{Name: "MySQL", Kind: KindDatabase},
	{Name: "MongoDB", Kind: KindDatabase, Aliases: []string{"mongo"}},
	{Name: "Redis", Kind: KindDatabase},
	{Name: "Cassandra", Kind: KindDatabase},
	{Name: "DynamoDB", Kind: KindDatabase},
	{Name: "Oracle", Kind: KindDatabase, ExactCase: true},
	{Name: "SQL Server", Kind: KindDatabase, Aliases: []string{"mssql"}},
	{Name: "SQLite", Kind: KindDatabase},
	{Name: "MariaDB", Kind: KindDatabase},
	{Name: "Neo4j", Kind: KindDatabase},
	{Name: "Firebase", Kind: KindPlatform},

	// practices and disciplines
	{Name: "Machine Learning", Kind: KindPractice, Aliases: []string{"ml"}},
	{Name: "Deep Learning", Kind: KindPractice},
	{Name: "Artificial Intelligence", Kind: KindPractice, Aliases: []string{"ai"}},
	{Name: "NLP", Kind: KindPractice, Aliases: []string{"natural language processing"}},
	{Name: "Computer Vision", Kind: KindPractice},
	{Name: "LLM", Kind: KindPractice, Aliases: []string{"llms", "large language models"}},
	{Name: "MLOps", Kind: KindPractice},
	{Name: "Data Science", Kind: KindPractice},
	{Name: "Data Analysis", Kind: KindPractice, Aliases: []string{"data analytics"}},
	{Name: "Data Engineering", Kind: KindPractice},
	{Name: "Data Modeling", Kind: KindPractice, Aliases: []string{"data modelling"}},
	{Name: "Data Warehousing", Kind: KindPractice, Aliases: []string{"data warehouse"}},
	{Name: "ETL", Kind: KindPractice},
	{Name: "A/B Testing", Kind: KindPractice},
	{Name: "Microservices", Kind: KindPractice},
	{Name: "Distributed Systems", Kind: KindPractice},
	{Name: "System Design", Kind: KindPractice},
	{Name: "CI/CD", Kind: KindPractice, Aliases: []string{"continuous integration", "continuous delivery", "continuous deployment"}},
	{Name: "DevOps", Kind: KindPractice},
	{Name: "SRE", Kind: KindPractice, Aliases: []string{"site reliability engineering"}},
	{Name: "Agile", Kind: KindPractice},
	{Name: "Scrum", Kind: KindPractice},
	{Name: "Kanban", Kind: KindPractice},
	{Name: "TDD", Kind: KindPractice, Aliases: []string{"test-driven development", "test driven development"}},
	{Name: "Unit Testing", Kind: KindPractice},
	{Name: "Test Automation", Kind: KindPractice},
	{Name: "OOP", Kind: KindPractice, Aliases: []string{"object-oriented programming", "object oriented programming"}},
	{Name: "Design Patterns", Kind: KindPractice},
	{Name: "API Design", Kind: KindPractice},
	{Name: "Cloud Computing", Kind: KindPractice},
	{Name: "Infrastructure as Code", Kind: KindPractice, Aliases: []string{"iac"}},
	{Name: "Penetration Testing", Kind: KindPractice, Aliases: []string{"pen testing", "pentesting"}},
	{Name: "Incident Response", Kind: KindPractice},
	{Name: "Project Management", Kind: KindPractice},
	{Name: "Product Management", Kind: KindPractice},
	{Name: "Stakeholder Management", Kind: KindPractice},
	{Name: "Risk Management", Kind: KindPractice},
	{Name: "Change Management", Kind: KindPractice},
	{Name: "Financial Modeling", Kind: KindPractice, Aliases: []string{"financial modelling"}},
	{Name: "SEO", Kind: KindPractice, Aliases: []string{"search engine optimization"}},
	{Name: "SEM", Kind: KindPractice},
	{Name: "Digital Marketing", Kind: KindPractice},
	{Name: "Content Marketing", Kind: KindPractice},
	{Name: "CRM", Kind: KindPractice},
	{Name: "ERP", Kind: KindPractice},
	{Name: "UX", Kind: KindPractice, Aliases: []string{"user experience"}},
	{Name: "UI", Kind: KindPractice, Aliases: []string{"user interface"}},
	{Name: "User Research", Kind: KindPractice},
	{Name: "Wireframing", Kind: KindPractice},
	{Name: "Prototyping", Kind: KindPractice},
	{Name: "Accessibility", Kind: KindPractice, Aliases: []string{"a11y"}},

	// certifications
	{Name: "CISSP", Kind: KindCertification},
	{Name: "PMP", Kind: KindCertification},
	{Name: "CPA", Kind: KindCertification},
	{Name: "CISA", Kind: KindCertification},
	{Name: "CISM", Kind: KindCertification},
	{Name: "CCNA", Kind: KindCertification},
	{Name: "CCNP", Kind: KindCertification},
	{Name: "CCIE", Kind: KindCertification},
	{Name: "CKA", Kind: KindCertification},
	{Name: "CKAD", Kind: KindCertification},
	{Name: "CFA", Kind: KindCertification},
	{Name: "ITIL", Kind: KindCertification},
	{Name: "Security+", Kind: KindCertification, Aliases: []string{"comptia security+"}},
	{Name: "Network+", Kind: KindCertification, Aliases: []string{"comptia network+"}},
	{Name: "CEH", Kind: KindCertification},
	{Name: "OSCP", Kind: KindCertification},
	{Name: "GIAC", Kind: KindCertification},
	{Name: "RHCE", Kind: KindCertification},
	{Name: "CAPM", Kind: KindCertification},
	{Name: "Six Sigma", Kind: KindCertification},
	{Name: "Certified Scrum Master", Kind: KindCertification, Aliases: []string{"csm", "scrum master certification"}},
	{Name: "AWS Certified", Kind: KindCertification},
	{Name: "SHRM-CP", Kind: KindCertification},
	{Name: "BLS", Kind: KindCertification},
	{Name: "ACLS", Kind: KindCertification},
	{Name: "CDL", Kind: KindCertification},
}

type indexEntry struct {
	term int
	// exact marks the single-token canonical spelling of an ExactCase term.
	exact bool
}

const maxGram = 3

var phraseIndex = buildIndex()

func buildIndex() map[string]indexEntry {
	idx := make(map[string]indexEntry)
	for i, t := range lexicon {
		nameWords := textnorm.Words(t.Name)
		if len(nameWords) <= maxGram {
			key := strings.Join(nameWords, " ")
			if _, dup := idx[key]; !dup {
				idx[key] = indexEntry{term: i, exact: t.ExactCase && len(nameWords) == 1}
			}
		}
		for _, alias := range t.Aliases {
			words := textnorm.Words(alias)
			if len(words) == 0 || len(words) > maxGram {
				continue
			}
			key := strings.Join(words, " ")
			if _, dup := idx[key]; !dup {
				idx[key] = indexEntry{term: i}
			}
		}
	}
	return idx
}

// Lookup returns the lexicon term a keyword belongs to, matching its name or
// any alias case-insensitively.
func Lookup(keyword string) (Term, bool) {
	e, ok := phraseIndex[strings.Join(textnorm.Words(keyword), " ")]
	if !ok {
		return Term{}, false
	}
	return lexicon[e.term], true
}

// IsTechnology reports whether keyword names a technology or tool. Keywords
// outside the lexicon count when they are shaped like one (acronyms, CamelCase,
// version suffixes).
func IsTechnology(keyword string) bool {
	if t, ok := Lookup(keyword); ok {
		return t.IsTechnology()
	}
	tokens := textnorm.Tokenize(keyword)
	return len(tokens) == 1 && looksTechnical(tokens[0])
}

// Certifications returns the certification names mentioned in text, in
// first-seen order and first-seen casing.
func Certifications(text string) []string {
	var out []string
	seen := make(map[int]bool)
	for _, sentence := range textnorm.Sentences(text) {
		for _, c := range lexiconMatches(sentence) {
			t := lexicon[c.term]
			if t.Kind != KindCertification || seen[c.term] {
				continue
			}
			seen[c.term] = true
			out = append(out, c.text)
		}
	}
	return out
}
