package search

import (
	"context"
	"log"

	"github.com/jonathan/article-enhancer/internal/types"
)

// MockScheme marks candidate links that carry their reference body inline
// instead of pointing at a fetchable page.
const MockScheme = "mock://"

// MockProvider returns a fixed two-entry result set regardless of the query.
// Its output is byte-for-byte reproducible, which keeps the downstream
// pipeline exercisable (and testable) without credentials or connectivity.
type MockProvider struct{}

// Search returns the canned candidate set.
func (p *MockProvider) Search(_ context.Context, query string) ([]types.SearchCandidate, error) {
	log.Printf("[SEARCH] Using mock search results for: %q", query)
	return []types.SearchCandidate{
		{
			Title:   "Best Practices for AI Chatbots - Tech Insights",
			Link:    MockScheme + "article-1",
			Snippet: "Learn about the best practices for implementing AI chatbots...",
			MockContent: `<h2>Introduction to AI Chatbots</h2>
<p>AI chatbots have revolutionized the way businesses interact with customers. They provide 24/7 support, handle multiple queries simultaneously, and can significantly reduce operational costs.</p>
<h2>Key Features of Modern Chatbots</h2>
<ul>
  <li>Natural Language Processing (NLP) for understanding user intent</li>
  <li>Machine Learning for continuous improvement</li>
  <li>Integration with CRM and other business tools</li>
  <li>Multi-channel support (web, mobile, social media)</li>
</ul>
<h2>Best Practices</h2>
<p>When implementing a chatbot, consider these best practices:</p>
<ol>
  <li>Define clear use cases and goals</li>
  <li>Design conversational flows that feel natural</li>
  <li>Always provide an option to speak with a human</li>
  <li>Continuously train and improve your bot</li>
  <li>Monitor performance metrics and user satisfaction</li>
</ol>
<h2>Conclusion</h2>
<p>A well-implemented chatbot can transform customer service and drive business growth. Focus on user experience and continuous improvement for best results.</p>`,
		},
		{
			Title:   "The Complete Guide to Conversational AI - Industry Report",
			Link:    MockScheme + "article-2",
			Snippet: "A comprehensive guide covering all aspects of conversational AI...",
			MockContent: `<h2>What is Conversational AI?</h2>
<p>Conversational AI refers to technologies that enable computers to simulate human-like conversations. This includes chatbots, virtual assistants, and voice-enabled devices.</p>
<h2>Benefits for Businesses</h2>
<p>Organizations implementing conversational AI see significant benefits:</p>
<ul>
  <li>Reduced customer service costs by up to 30%</li>
  <li>Improved response times and availability</li>
  <li>Enhanced customer satisfaction scores</li>
  <li>Valuable insights from conversation analytics</li>
</ul>
<h2>Implementation Strategies</h2>
<p>Successful implementation requires careful planning:</p>
<ol>
  <li>Start with a pilot program</li>
  <li>Focus on high-volume, repetitive queries first</li>
  <li>Integrate with existing systems</li>
  <li>Train staff to work alongside AI</li>
</ol>
<h2>Future Trends</h2>
<p>The future of conversational AI includes more advanced NLP, emotional intelligence, and seamless omnichannel experiences.</p>`,
		},
	}, nil
}
