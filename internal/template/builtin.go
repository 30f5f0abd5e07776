package template

// Builtins returns the built-in template collection. Each combines the
// persona line and the task pattern into a single instruction string.
func Builtins() []Template {
	return []Template{
		{
			Name:        "product_description",
			Category:    "marketing",
			Description: "Generate compelling product descriptions for e-commerce",
			SystemInstructions: "You are an expert e-commerce copywriter. " +
				"Write a ${tone} product description for ${product_name}. " +
				"Key features: ${features}. Target audience: ${audience}. " +
				"Length: ${length} words. Include a compelling call-to-action.",
			RequiredVariables:         []string{"product_name", "features", "audience"},
			OptionalVariables:         map[string]string{"tone": "persuasive", "length": "100"},
			MaxTokensRecommendation:   300,
			TemperatureRecommendation: 0.7,
		},
		{
			Name:        "social_media_post",
			Category:    "social_media",
			Description: "Create platform-optimized social media posts",
			SystemInstructions: "You are a social media marketing specialist. " +
				"Create a ${platform}-optimized post about ${topic}. " +
				"Tone: ${tone}. Include ${hashtag_count} relevant hashtags " +
				"and a strong call-to-action: ${cta}. Character limit: ${char_limit}.",
			RequiredVariables: []string{"platform", "topic", "cta"},
			OptionalVariables: map[string]string{
				"tone":          "engaging",
				"hashtag_count": "3",
				"char_limit":    "280",
			},
			MaxTokensRecommendation:   200,
			TemperatureRecommendation: 0.8,
		},
		{
			Name:        "email_subject_line",
			Category:    "email",
			Description: "Generate high-converting email subject lines",
			SystemInstructions: "You are an email marketing expert specializing in high open rates. " +
				"Generate ${count} email subject lines for ${campaign_type}. " +
				"Target audience: ${audience}. Goal: ${goal}. Style: ${style}. " +
				"Each must be under 60 characters and avoid spam trigger words.",
			RequiredVariables:         []string{"campaign_type", "audience", "goal"},
			OptionalVariables:         map[string]string{"count": "5", "style": "professional"},
			MaxTokensRecommendation:   300,
			TemperatureRecommendation: 0.8,
		},
		{
			Name:        "blog_post_outline",
			Category:    "content",
			Description: "Create SEO-optimized blog post outlines",
			SystemInstructions: "You are a content strategist and SEO specialist. " +
				"Create a detailed blog post outline for: \"${title}\". " +
				"Target keyword: ${keyword}. Audience: ${audience}. " +
				"Include ${section_count} main sections with subsections. " +
				"Add meta description and suggested internal links.",
			RequiredVariables:         []string{"title", "keyword", "audience"},
			OptionalVariables:         map[string]string{"section_count": "5"},
			MaxTokensRecommendation:   800,
			TemperatureRecommendation: 0.6,
		},
		{
			Name:        "meta_description",
			Category:    "seo",
			Description: "Generate SEO-optimized meta descriptions",
			SystemInstructions: "You are an SEO specialist. " +
				"Write an SEO-optimized meta description for a page about ${topic}. " +
				"Primary keyword: ${keyword}. Include a call-to-action. " +
				"Must be 150-160 characters and compelling for search results.",
			RequiredVariables:         []string{"topic", "keyword"},
			MaxTokensRecommendation:   100,
			TemperatureRecommendation: 0.5,
		},
		{
			Name:        "tagline_slogan",
			Category:    "branding",
			Description: "Generate memorable brand taglines and slogans",
			SystemInstructions: "You are a creative branding expert. " +
				"Generate ${count} memorable taglines for ${brand_name}. " +
				"Industry: ${industry}. Brand personality: ${personality}. " +
				"Target emotion: ${emotion}. Each must be under 10 words and unique.",
			RequiredVariables:         []string{"brand_name", "industry", "personality", "emotion"},
			OptionalVariables:         map[string]string{"count": "5"},
			MaxTokensRecommendation:   250,
			TemperatureRecommendation: 0.9,
		},
		{
			Name:        "faq_generator",
			Category:    "support",
			Description: "Generate comprehensive FAQ content",
			SystemInstructions: "You are a customer support expert. " +
				"Generate ${count} frequently asked questions and detailed answers " +
				"for ${product_or_service}. Target audience: ${audience}. " +
				"Tone: ${tone}. Focus on common concerns about ${focus_area}.",
			RequiredVariables:         []string{"product_or_service", "audience", "focus_area"},
			OptionalVariables:         map[string]string{"tone": "helpful", "count": "5"},
			MaxTokensRecommendation:   1000,
			TemperatureRecommendation: 0.5,
		},
		{
			Name:        "email_newsletter",
			Category:    "email",
			Description: "Create engaging email newsletter content",
			SystemInstructions: "You are an email marketing copywriter. " +
				"Write an engaging email newsletter about ${topic}. " +
				"Target: ${audience}. Include: attention-grabbing subject line, " +
				"opening hook, ${section_count} content sections, and clear CTA: ${cta}. " +
				"Tone: ${tone}.",
			RequiredVariables: []string{"topic", "audience", "cta"},
			OptionalVariables: map[string]string{
				"section_count": "3",
				"tone":          "conversational",
			},
			MaxTokensRecommendation:   800,
			TemperatureRecommendation: 0.7,
		},
		{
			Name:        "press_release",
			Category:    "marketing",
			Description: "Generate professional press releases",
			SystemInstructions: "You are a PR and communications specialist. " +
				"Write a professional press release for ${company_name} announcing ${announcement}. " +
				"Include: headline, subheadline, dateline (${location}), lead paragraph, " +
				"${body_paragraph_count} body paragraphs, boilerplate, and contact info placeholder. " +
				"Tone: ${tone}. Target media: ${target_media}.",
			RequiredVariables: []string{"company_name", "announcement", "location"},
			OptionalVariables: map[string]string{
				"body_paragraph_count": "3",
				"tone":                 "formal",
				"target_media":         "general news outlets",
			},
			MaxTokensRecommendation:   800,
			TemperatureRecommendation: 0.4,
		},
		{
			Name:        "competitor_analysis",
			Category:    "marketing",
			Description: "Generate competitive analysis reports",
			SystemInstructions: "You are a market research and competitive intelligence analyst. " +
				"Create a competitive analysis comparing ${company} to competitors: ${competitors}. " +
				"Industry: ${industry}. Focus areas: ${focus_areas}. " +
				"Include: strengths, weaknesses, opportunities, and threats for each. " +
				"Analysis depth: ${depth}.",
			RequiredVariables:         []string{"company", "competitors", "industry", "focus_areas"},
			OptionalVariables:         map[string]string{"depth": "comprehensive"},
			MaxTokensRecommendation:   1500,
			TemperatureRecommendation: 0.4,
		},
	}
}
